// Package parameters loads and saves the runtime tunable system parameters.
package parameters

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/setting"
)

const (
	// SettingKey is the key used to store the system parameters in the settings table.
	SettingKey = "system_parameters"

	// DefaultFreeTrialDays is the trial length granted on registration.
	DefaultFreeTrialDays = 3
	// DefaultEvaluationTrialDays is the trial length of the evaluation tier.
	DefaultEvaluationTrialDays = 7
	// DefaultMaxPracticesPerDay caps practices of a free customer.
	DefaultMaxPracticesPerDay = 10
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

type (
	// Parameters holds the system parameters editable from the admin panel.
	Parameters struct {
		FreeTrialDays       int `json:"free_trial_days"       validate:"gte=0,lte=365"`
		EvaluationTrialDays int `json:"evaluation_trial_days" validate:"gte=0,lte=365"`
		MaxPracticesPerDay  int `json:"max_practices_per_day" validate:"gte=1,lte=1000"`
	}
)

// Defaults returns the parameters used until an administrator saves others.
func Defaults() Parameters {
	return Parameters{
		FreeTrialDays:       DefaultFreeTrialDays,
		EvaluationTrialDays: DefaultEvaluationTrialDays,
		MaxPracticesPerDay:  DefaultMaxPracticesPerDay,
	}
}

// Load loads the parameters from the database, falling back to the defaults when none were saved.
// Fields missing from the stored blob keep their default.
func (p *Parameters) Load(db *gorm.DB) error {
	*p = Defaults()

	s, err := setting.Get(db, SettingKey)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = json.Unmarshal(s.Value, p); err != nil {
		return apperr.Storage(err)
	}

	return nil
}

// Validate checks the ranges of every parameter.
func (p *Parameters) Validate() error {
	return validate.Struct(p) //nolint:wrapcheck
}

// Save validates and stores the parameters.
func (p *Parameters) Save(db *gorm.DB) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKey, data)

	return err
}
