package queries

import (
	"context"

	"github.com/pkg/errors"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Load reads the persisted distribution state
func (repo *Repo) Load(ctx context.Context) (*distribution.Snapshot, error) {
	db := repo.Conn.WithContext(ctx)
	snapshot := &distribution.Snapshot{}

	cfg := &model.DistributionConfig{}
	err := db.First(cfg, model.DistributionConfigID).Error
	switch {
	case err == nil:
		snapshot.Config = cfg
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.Wrap(err, "unable to load distribution config")
	}

	bl := &model.Blacklist{}
	err = db.First(bl, model.BlacklistID).Error
	switch {
	case err == nil:
		entries := []model.BlacklistEntry{}
		if err := db.Order("created_at ASC").Find(&entries).Error; err != nil {
			return nil, errors.Wrap(err, "unable to load blacklist entries")
		}
		bl.Users = make([]model.Identity, 0, len(entries))
		for _, entry := range entries {
			bl.Users = append(bl.Users, entry.User)
		}
		snapshot.Blacklist = bl
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.Wrap(err, "unable to load blacklist")
	}

	if err := db.Find(&snapshot.UserClaims).Error; err != nil {
		return nil, errors.Wrap(err, "unable to load user claims")
	}
	if err := db.Find(&snapshot.PendingActions).Error; err != nil {
		return nil, errors.Wrap(err, "unable to load pending admin actions")
	}
	if err := db.Where("amount > 0").Find(&snapshot.Balances).Error; err != nil {
		return nil, errors.Wrap(err, "unable to load balances")
	}
	return snapshot, nil
}

// Apply writes the changeset and runs the effect in one transaction. The effect
// runs last so that a failed write never reaches the ledger.
func (repo *Repo) Apply(ctx context.Context, changes *distribution.Changeset, effect func(ctx context.Context) error) error {
	return repo.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := func(value interface{}) error {
			return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
		}

		if changes.Config != nil {
			if err := upsert(changes.Config); err != nil {
				return errors.Wrap(err, "unable to save distribution config")
			}
		}
		if changes.Blacklist != nil {
			if err := upsert(changes.Blacklist); err != nil {
				return errors.Wrap(err, "unable to save blacklist")
			}
		}
		for _, user := range changes.BlacklistAdded {
			entry := &model.BlacklistEntry{User: user}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
				return errors.Wrap(err, "unable to add blacklist entry")
			}
		}
		for _, user := range changes.BlacklistRemoved {
			if err := tx.Where("wallet = ?", user).Delete(&model.BlacklistEntry{}).Error; err != nil {
				return errors.Wrap(err, "unable to remove blacklist entry")
			}
		}
		for _, claim := range changes.UserClaims {
			if err := upsert(claim); err != nil {
				return errors.Wrap(err, "unable to save user claim")
			}
		}
		for _, action := range changes.PendingActions {
			if err := upsert(action); err != nil {
				return errors.Wrap(err, "unable to save pending admin action")
			}
		}
		for _, admin := range changes.DeletedActions {
			if err := tx.Where("admin = ?", admin).Delete(&model.PendingAdminAction{}).Error; err != nil {
				return errors.Wrap(err, "unable to delete pending admin action")
			}
		}
		for _, balance := range changes.Balances {
			if err := upsert(balance); err != nil {
				return errors.Wrap(err, "unable to save balance")
			}
		}

		if effect == nil {
			return nil
		}
		return effect(ctx)
	})
}

// CountUserClaims returns the number of claimants known to the database
func (repo *Repo) CountUserClaims() (int64, error) {
	var count int64
	err := repo.ConnReader.Model(&model.UserClaim{}).Count(&count).Error
	return count, err
}
