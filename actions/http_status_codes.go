package actions

// A list of status codes used inside the application. For more details see: https://httpstatuses.com/

// OK - success
const OK = 200

// Created - resource created
const Created = 201

// BadRequest - sent when a bad request was submitted by the client
const BadRequest = 400

// Unauthorized - the request carries no caller or an invalid signature
const Unauthorized = 401

// AccessDenied - the caller is not allowed to perform the operation
const AccessDenied = 403

// NotFound - the resource identified by the given ID does not exist
const NotFound = 404

// PreconditionFailed - a condition must be met before the request can be processed
const PreconditionFailed = 412

// ValidationFailed - the request did not pass field verification
const ValidationFailed = 422

// ServerError - internal server error
const ServerError = 500

// ServiceUnavailable - the distribution is paused
const ServiceUnavailable = 503
