package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRule maps a payee glob pattern to an envelope. Transaction imports
// use match rules to assign envelopes automatically, lower priority values
// win.
type MatchRule struct {
	DefaultModel
	EnvelopeID uuid.UUID
	Envelope   Envelope `json:"-"`
	Priority   uint
	Match      string
}

func (r *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*MatchRule)
	return r.checkIntegrity(tx, *toSave)
}

func (r *MatchRule) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(MatchRule)

	if tx.Statement.Changed("EnvelopeID") {
		err := r.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the envelope the match rule references exists
func (r *MatchRule) checkIntegrity(tx *gorm.DB, toSave MatchRule) error {
	return tx.First(&Envelope{}, toSave.EnvelopeID).Error
}

func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)

	if r.Match == "" {
		return ErrMatchRuleMatchNotSet
	}

	return nil
}
