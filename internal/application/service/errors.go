package service

import "errors"

var (
	// ErrProjectNotFound is returned when no project has the requested ID
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoBudgetDetails is returned when a project has no stored budget sheet
	ErrNoBudgetDetails = errors.New("project has no budget details")
)
