package grouping

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Options tunes a single generation run.
type Options struct {
	GroupSize           int    `json:"group_size" validate:"required,min=2"`
	Prefix              string `json:"prefix" validate:"max=50"`
	ClearExisting       bool   `json:"clear_existing"`
	BalanceGender       bool   `json:"balance_gender"`
	BalanceAbility      bool   `json:"balance_ability"`
	PairSupportPartners bool   `json:"pair_support_partners"`
	RespectSeparations  bool   `json:"respect_separations"`
}

// DefaultOptions are the options a teacher starts from: pairs of students,
// separations respected, no balancing.
func DefaultOptions(prefix string) Options {
	return Options{
		GroupSize:          2,
		Prefix:             prefix,
		RespectSeparations: true,
	}
}

func (o *Options) Validate(validate *validator.Validate) error {
	o.Prefix = core.CleanString(o.Prefix)
	return validate.Struct(o)
}

// check rejects options the generator cannot work with.
// It does not need a validator so that the engine can be used on its own.
func (o Options) check() error {
	if o.GroupSize < 2 {
		return core.NewFieldValidationError("group_size", ErrGroupSizeTooSmall)
	}
	return nil
}
