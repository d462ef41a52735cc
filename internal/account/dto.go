package account

import (
	"encoding/json"
	"fmt"
)

// CreateUser is the create-schema payload. Raw maps from the transport
// layer are decoded with DecodeCreateUser so unknown keys are dropped
// before validation.
type CreateUser struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	Bio            string `json:"bio" validate:"omitempty,max=500"`
	IsProfessional bool   `json:"is_professional"`
}

// UpdateUser is the partial update-schema payload: only non-nil fields are
// applied to the row.
type UpdateUser struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,min=8,max=72"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	IsProfessional *bool   `json:"is_professional"`
	Role           *string `json:"role" validate:"omitempty,oneof=ANONYMOUS AUTHENTICATED MANAGER ADMIN"`
}

// DecodeCreateUser maps a raw key-value payload onto the create schema,
// silently ignoring unrecognized keys.
func DecodeCreateUser(raw map[string]any) (CreateUser, error) {
	var in CreateUser
	err := decodeInto(raw, &in)
	return in, err
}

// DecodeUpdateUser maps a raw key-value payload onto the update schema.
// Keys absent from the payload stay nil and are not applied.
func DecodeUpdateUser(raw map[string]any) (UpdateUser, error) {
	var in UpdateUser
	err := decodeInto(raw, &in)
	return in, err
}

func decodeInto(raw map[string]any, dst any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return invalidPayload(err)
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return invalidPayload(err)
	}
	return nil
}

// invalidPayload stamps schema failures with ErrValidation while keeping
// the underlying decoder/validator error inspectable.
func invalidPayload(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
