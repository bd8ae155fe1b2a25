package queries

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog/log"
	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	adminID = model.Identity{1}
	assetID = model.Identity{2}
	userID  = model.Identity{3}
)

func setupDB() (*gorm.DB, sqlmock.Sqlmock) {
	logger := log.With().Str("test", "queries").Str("method", "setupDB").Logger()
	db, mock, err := sqlmock.New()
	if err != nil {
		logger.Fatal().Msgf("can't create sqlmock: %s", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "postgres-mock",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		logger.Fatal().Msgf("can't open gorm connection: %s", err)
	}

	return gormDB, mock
}

func setupRepo() (*Repo, sqlmock.Sqlmock) {
	db, mock := setupDB()
	return &Repo{
		Conn:       db,
		ConnReader: db,
	}, mock
}

func sql(query string) string {
	return regexp.QuoteMeta(query)
}

func TestRepo_Load(t *testing.T) {
	ctx := context.TODO()

	Convey("it should load the whole distribution state", t, func() {
		r, mock := setupRepo()
		now := time.Now()

		mock.ExpectQuery(sql(`SELECT * FROM "distribution_configs"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "accepted_asset", "admin", "emergency_paused", "max_claim_per_user", "total_supply_limit", "total_minted", "created_at", "updated_at"}).
				AddRow(1, assetID.String(), adminID.String(), false, 2400, 1000000, 150, now, now))
		mock.ExpectQuery(sql(`SELECT * FROM "blacklists"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "admin", "created_at", "updated_at"}).
				AddRow(1, adminID.String(), now, now))
		mock.ExpectQuery(sql(`SELECT * FROM "blacklist_entries" ORDER BY created_at ASC`)).
			WillReturnRows(sqlmock.NewRows([]string{"wallet", "created_at"}).
				AddRow(userID.String(), now))
		mock.ExpectQuery(sql(`SELECT * FROM "user_claims"`)).
			WillReturnRows(sqlmock.NewRows([]string{"wallet", "total_claimed", "last_claim_timestamp", "daily_claimed", "daily_reset_timestamp", "hourly_claimed", "hourly_reset_timestamp", "nonce", "is_blacklisted", "created_at", "updated_at"}).
				AddRow(userID.String(), 150, 100, 150, 50, 100, 90, 3, true, now, now))
		mock.ExpectQuery(sql(`SELECT * FROM "pending_admin_actions"`)).
			WillReturnRows(sqlmock.NewRows([]string{"admin", "action_type", "new_value", "requested_at", "executed", "created_at", "updated_at"}).
				AddRow(adminID.String(), string(model.AdminActionType_ChangeAsset), userID.String(), 77, false, now, now))
		mock.ExpectQuery(sql(`SELECT * FROM "balances" WHERE amount > 0`)).
			WillReturnRows(sqlmock.NewRows([]string{"asset", "wallet", "amount", "updated_at"}).
				AddRow(assetID.String(), userID.String(), 150, now))

		snapshot, err := r.Load(ctx)
		So(err, ShouldBeNil)
		So(snapshot.Config.AcceptedAsset, ShouldEqual, assetID)
		So(snapshot.Config.TotalMinted, ShouldEqual, 150)
		So(snapshot.Blacklist.Users, ShouldResemble, []model.Identity{userID})
		So(len(snapshot.UserClaims), ShouldEqual, 1)
		So(snapshot.UserClaims[0].Nonce, ShouldEqual, 3)
		So(snapshot.UserClaims[0].IsBlacklisted, ShouldBeTrue)
		So(snapshot.PendingActions[0].ActionType, ShouldEqual, model.AdminActionType_ChangeAsset)
		So(snapshot.PendingActions[0].NewValue, ShouldEqual, userID)
		So(len(snapshot.Balances), ShouldEqual, 1)
		So(snapshot.Balances[0].Asset, ShouldEqual, assetID)
		So(snapshot.Balances[0].Owner, ShouldEqual, userID)
		So(snapshot.Balances[0].Amount, ShouldEqual, 150)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should load an empty state from an empty database", t, func() {
		r, mock := setupRepo()

		mock.ExpectQuery(sql(`SELECT * FROM "distribution_configs"`)).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(sql(`SELECT * FROM "blacklists"`)).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(sql(`SELECT * FROM "user_claims"`)).WillReturnRows(sqlmock.NewRows([]string{"wallet"}))
		mock.ExpectQuery(sql(`SELECT * FROM "pending_admin_actions"`)).WillReturnRows(sqlmock.NewRows([]string{"admin"}))
		mock.ExpectQuery(sql(`SELECT * FROM "balances" WHERE amount > 0`)).WillReturnRows(sqlmock.NewRows([]string{"asset"}))

		snapshot, err := r.Load(ctx)
		So(err, ShouldBeNil)
		So(snapshot.Config, ShouldBeNil)
		So(snapshot.Blacklist, ShouldBeNil)
		So(snapshot.UserClaims, ShouldBeEmpty)
		So(snapshot.Balances, ShouldBeEmpty)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should return err when the database fails", t, func() {
		r, mock := setupRepo()
		mock.ExpectQuery(sql(`SELECT * FROM "distribution_configs"`)).WillReturnError(errors.New("connection refused"))

		_, err := r.Load(ctx)
		So(err, ShouldNotBeNil)
	})
}

func TestRepo_Apply(t *testing.T) {
	ctx := context.TODO()

	Convey("it should write the changeset and run the effect in one transaction", t, func() {
		r, mock := setupRepo()
		cfg := model.NewDistributionConfig(adminID, assetID, 2400, 1000)
		claim := model.NewUserClaim(userID, 100)

		mock.ExpectBegin()
		mock.ExpectExec(sql(`INSERT INTO "distribution_configs"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(sql(`INSERT INTO "user_claims"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		ran := false
		err := r.Apply(ctx, &distribution.Changeset{Config: cfg, UserClaims: []*model.UserClaim{claim}}, func(ctx context.Context) error {
			ran = true
			return nil
		})
		So(err, ShouldBeNil)
		So(ran, ShouldBeTrue)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should write the balances produced by the ledger effect", t, func() {
		r, mock := setupRepo()
		claim := model.NewUserClaim(userID, 100)

		mock.ExpectBegin()
		mock.ExpectExec(sql(`INSERT INTO "user_claims"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(sql(`INSERT INTO "balances" ("asset","wallet","amount","updated_at") VALUES ($1,$2,$3,$4) ON CONFLICT`)).
			WithArgs(assetID.String(), userID.String(), int64(250), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := r.Apply(ctx, &distribution.Changeset{
			UserClaims: []*model.UserClaim{claim},
			Balances:   []*model.Balance{model.NewBalance(assetID, userID, 250)},
		}, nil)
		So(err, ShouldBeNil)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should roll back the balance when the commit fails", t, func() {
		r, mock := setupRepo()

		mock.ExpectBegin()
		mock.ExpectExec(sql(`INSERT INTO "balances"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		err := r.Apply(ctx, &distribution.Changeset{
			Balances: []*model.Balance{model.NewBalance(assetID, userID, 250)},
		}, func(ctx context.Context) error { return nil })
		So(err, ShouldNotBeNil)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should roll back when the effect fails", t, func() {
		r, mock := setupRepo()
		cfg := model.NewDistributionConfig(adminID, assetID, 2400, 1000)
		effectErr := errors.New("mint failed")

		mock.ExpectBegin()
		mock.ExpectExec(sql(`INSERT INTO "distribution_configs"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectRollback()

		err := r.Apply(ctx, &distribution.Changeset{Config: cfg}, func(ctx context.Context) error {
			return effectErr
		})
		So(errors.Is(err, effectErr), ShouldBeTrue)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should not run the effect when a write fails", t, func() {
		r, mock := setupRepo()
		cfg := model.NewDistributionConfig(adminID, assetID, 2400, 1000)

		mock.ExpectBegin()
		mock.ExpectExec(sql(`INSERT INTO "distribution_configs"`)).WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		ran := false
		err := r.Apply(ctx, &distribution.Changeset{Config: cfg}, func(ctx context.Context) error {
			ran = true
			return nil
		})
		So(err, ShouldNotBeNil)
		So(ran, ShouldBeFalse)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})

	Convey("it should sync blacklist entries and delete cancelled actions", t, func() {
		r, mock := setupRepo()
		bl := model.NewBlacklist(adminID)
		bl.Add(userID)

		mock.ExpectBegin()
		mock.ExpectExec(sql(`INSERT INTO "blacklists"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(sql(`INSERT INTO "blacklist_entries"`)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(sql(`DELETE FROM "blacklist_entries" WHERE wallet = $1`)).
			WithArgs(assetID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sql(`DELETE FROM "pending_admin_actions" WHERE admin = $1`)).
			WithArgs(adminID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := r.Apply(ctx, &distribution.Changeset{
			Blacklist:        bl,
			BlacklistAdded:   []model.Identity{userID},
			BlacklistRemoved: []model.Identity{assetID},
			DeletedActions:   []model.Identity{adminID},
		}, nil)
		So(err, ShouldBeNil)
		So(mock.ExpectationsWereMet(), ShouldBeNil)
	})
}
