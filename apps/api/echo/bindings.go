package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

const (
	studentParam = "student"
	limitParam   = "limit"
	maxLimit     = 500
)

type Pagination struct {
	Limit int
}

// Bind reads ?limit=; a missing limit stays 0 and lets the service pick its default.
func (p *Pagination) Bind(ctx echo.Context) error {
	val := ctx.QueryParam(limitParam)
	if val == "" {
		return nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit < 0 {
		return core.NewValidationError(nil, core.FieldError{Field: limitParam, Error: "must be a non-negative integer"})
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	p.Limit = limit
	return nil
}

type assignRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
}

type releaseRequest struct {
	CreatureID string `json:"creature_id" validate:"required"`
	StudentID  string `json:"student_id" validate:"required"`
}

type balanceResponse struct {
	StudentID string `json:"student_id"`
	Earned    int64  `json:"earned"`
	Spent     int64  `json:"spent"`
	Balance   int64  `json:"balance"`
}

func newBalanceResponse(earned, spent int64, studentID string) balanceResponse {
	return balanceResponse{
		StudentID: studentID,
		Earned:    earned,
		Spent:     spent,
		Balance:   earned - spent,
	}
}

type initializeResponse struct {
	OrganizationID string `json:"organization_id"`
	Created        int    `json:"created"`
}
