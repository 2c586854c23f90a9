// internal/app/features/groups/groupform.go
package groups

import (
	"net/http"
	"time"

	"github.com/dalemusser/secretsanta/internal/app/system/htmlsanitize"
	"github.com/dalemusser/secretsanta/internal/app/system/inputval"
	"github.com/dalemusser/secretsanta/internal/app/system/normalize"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
)

// groupInput defines validation rules shared by create and edit.
type groupInput struct {
	Name        string `validate:"required,max=200" label:"Name"`
	Description string `validate:"max=2000" label:"Description"`
}

// groupFormData backs both group_new and group_edit.
type groupFormData struct {
	viewdata.BaseVM

	GroupID     string
	Name        string
	Description string
	EventDate   string
	Budget      string
	Error       string
}

// parsedGroup is a validated group form.
type parsedGroup struct {
	Name             string
	Description      string
	EventDate        time.Time
	BudgetLimitCents *int64
}

// readGroupForm parses and validates the group form. When msg is non-empty
// the form is invalid and data carries the submitted values for a re-render.
func readGroupForm(r *http.Request, data *groupFormData) (pg parsedGroup, msg string) {
	data.Name = normalize.Name(r.FormValue("name"))
	data.Description = htmlsanitize.PlainText(r.FormValue("description"))
	data.EventDate = normalize.QueryParam(r.FormValue("event_date"))
	data.Budget = normalize.QueryParam(r.FormValue("budget"))

	if res := inputval.Validate(groupInput{Name: data.Name, Description: data.Description}); res.HasErrors() {
		return parsedGroup{}, res.First()
	}
	date, msg := parseEventDate(data.EventDate)
	if msg != "" {
		return parsedGroup{}, msg
	}
	budget, msg := parseBudget(data.Budget)
	if msg != "" {
		return parsedGroup{}, msg
	}

	return parsedGroup{
		Name:             data.Name,
		Description:      data.Description,
		EventDate:        date,
		BudgetLimitCents: budget,
	}, ""
}
