package service

import "fmt"

// Entity names carried by NotFoundError.
const (
	EntityUser  = "User"
	EntityGroup = "Group"
)

// ConflictError reports a uniqueness violation, such as a taken email address.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports that an entity named by a write operation does not exist.
// Reads signal absence with a nil result instead.
type NotFoundError struct {
	Entity  string
	ID      uint
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func emailConflict(email string) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf("User with email %s already exists.", email)}
}

func notFound(entity string, id uint) *NotFoundError {
	return &NotFoundError{
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf("%s with ID %d not found.", entity, id),
	}
}

func userNotFound(id uint) *NotFoundError {
	return notFound(EntityUser, id)
}

func groupNotFound(id uint) *NotFoundError {
	return notFound(EntityGroup, id)
}

// invalidGroupID covers ids that cannot name a row at all.
func invalidGroupID(id int) *NotFoundError {
	return &NotFoundError{
		Entity:  EntityGroup,
		Message: fmt.Sprintf("%s with ID %d not found.", EntityGroup, id),
	}
}
