package validator

import (
	"staymi/pkg/model"
	"staymi/pkg/validation"
)

// CatalogValidator checks catalog documents: struct tags first, then the
// rules that span several fields.
type CatalogValidator struct {
	validate *validation.Validator
}

func NewCatalogValidator(v *validation.Validator) *CatalogValidator {
	return &CatalogValidator{validate: v}
}

func (v *CatalogValidator) ValidateBrand(b *model.Brand) error {
	return v.validate.Struct(b)
}

func (v *CatalogValidator) ValidateHotel(h *model.Hotel) error {
	if err := v.validate.Struct(h); err != nil {
		return err
	}
	if h.CheckInTime == h.CheckOutTime {
		return validation.Fail("check_out_time", "must differ from check_in_time")
	}
	return nil
}

func (v *CatalogValidator) ValidateRoomType(rt *model.RoomType) error {
	return v.validate.Struct(rt)
}

func (v *CatalogValidator) ValidateRoom(room *model.HotelRoom) error {
	return v.validate.Struct(room)
}

// ValidateRoomPlan enforces that subscriber prices never exceed the price of
// a cheaper tier: pro <= plus <= price.
func (v *CatalogValidator) ValidateRoomPlan(p *model.RoomPlan) error {
	if err := v.validate.Struct(p); err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if p.PlusPrice != nil && p.PlusPrice.GreaterThan(p.Price) {
		errs = append(errs, validation.ValidationError{Field: "plus_price", Message: "must not exceed price"})
	}
	if p.ProPrice != nil {
		if p.ProPrice.GreaterThan(p.Price) {
			errs = append(errs, validation.ValidationError{Field: "pro_price", Message: "must not exceed price"})
		} else if p.PlusPrice != nil && p.ProPrice.GreaterThan(*p.PlusPrice) {
			errs = append(errs, validation.ValidationError{Field: "pro_price", Message: "must not exceed plus_price"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *CatalogValidator) ValidateProductPlan(p *model.ProductPlan) error {
	return v.validate.Struct(p)
}
