package user

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/usermgmt-go/usermgmt/internal/dto"
)

const (
	fieldFirstName = "firstName"
	fieldLastName  = "lastName"
	fieldEmail     = "email"
	fieldPhone     = "phoneNumber"
	fieldActive    = "isActive"
	fieldGroupIDs  = "groupIds"
)

// parseForm reads the urlencoded or multipart form.
// An unchecked isActive checkbox is absent from the body and means inactive.
// The returned form is never nil so it can be re-rendered.
func parseForm(c *fiber.Ctx) (*FormData, error) {
	form := &FormData{
		FirstName:   strings.TrimSpace(c.FormValue(fieldFirstName)),
		LastName:    strings.TrimSpace(c.FormValue(fieldLastName)),
		Email:       strings.TrimSpace(c.FormValue(fieldEmail)),
		PhoneNumber: strings.TrimSpace(c.FormValue(fieldPhone)),
		IsActive:    c.FormValue(fieldActive) != "",
		GroupIDs:    map[uint]bool{},
	}

	var values [][]byte

	if mf, err := c.MultipartForm(); err == nil {
		for _, v := range mf.Value[fieldGroupIDs] {
			values = append(values, []byte(v))
		}
	} else {
		values = c.Request().PostArgs().PeekMulti(fieldGroupIDs)
	}

	for _, raw := range values {
		id, err := strconv.ParseUint(string(raw), 10, 32)
		if err != nil {
			return form, err //nolint:wrapcheck
		}

		form.GroupIDs[uint(id)] = true
	}

	return form, nil
}

func (f *FormData) phone() *string {
	if f.PhoneNumber == "" {
		return nil
	}

	p := f.PhoneNumber

	return &p
}

// groupIDs returns the checked groups in ascending order.
func (f *FormData) groupIDs() []int {
	ids := make([]int, 0, len(f.GroupIDs))
	for id, checked := range f.GroupIDs {
		if checked {
			ids = append(ids, int(id))
		}
	}

	slices.Sort(ids)

	return ids
}

func (f *FormData) createInput() *dto.CreateUserInput {
	return &dto.CreateUserInput{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		PhoneNumber: f.phone(),
		GroupIDs:    f.groupIDs(),
	}
}

func (f *FormData) updateInput() *dto.UpdateUserInput {
	active := f.IsActive

	return &dto.UpdateUserInput{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		PhoneNumber: f.phone(),
		IsActive:    &active,
		GroupIDs:    f.groupIDs(),
	}
}

func formFromUser(u *dto.UserDto) *FormData {
	form := &FormData{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		GroupIDs:  make(map[uint]bool, len(u.Groups)),
	}

	if u.PhoneNumber != nil {
		form.PhoneNumber = *u.PhoneNumber
	}

	for _, g := range u.Groups {
		form.GroupIDs[g.ID] = true
	}

	return form
}
