package validator

import (
	"fmt"
	"time"

	"staymi/pkg/model"
	"staymi/pkg/validation"
)

// Stay is a validated date range.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Nights   int
}

type OrderValidator struct {
	validate  *validation.Validator
	maxNights int
}

func NewOrderValidator(v *validation.Validator, maxNights int) *OrderValidator {
	return &OrderValidator{validate: v, maxNights: maxNights}
}

// ValidateRequest checks the request fields and its stay relative to today,
// which must be a UTC date.
func (v *OrderValidator) ValidateRequest(req *model.CreateOrderRequest, today time.Time) (*Stay, error) {
	if err := v.validate.Struct(req); err != nil {
		return nil, err
	}

	checkIn, _ := time.Parse(validation.DateLayout, req.CheckIn)
	checkOut, _ := time.Parse(validation.DateLayout, req.CheckOut)

	if !checkOut.After(checkIn) {
		return nil, validation.Fail("check_out", "must be after check_in")
	}
	if checkIn.Before(today) {
		return nil, validation.Fail("check_in", "must not be in the past")
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights > v.maxNights {
		return nil, validation.Fail("check_out", fmt.Sprintf("stay must not exceed %d nights", v.maxNights))
	}
	return &Stay{CheckIn: checkIn, CheckOut: checkOut, Nights: nights}, nil
}

// Today truncates now to its UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
