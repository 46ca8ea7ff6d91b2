/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/amoakoh/parishbooks/db"
)

type createLiabilityRequest struct {
	Name      string `json:"name"`
	Principal string `json:"principal"`
}

type liabilityPaymentRequest struct {
	AccountID   *uuid.UUID `json:"account_id"`
	Amount      string     `json:"amount"`
	PaymentDate string     `json:"payment_date"`
	Description *string    `json:"description"`
}

// LiabilitiesList returns all outstanding obligations.
func LiabilitiesList(c flamego.Context) {
	ctx := c.Request().Context()

	liabilities, err := db.ListLiabilities(ctx)
	if err != nil {
		logger.Error("Error listing liabilities", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list liabilities")

		return
	}

	writeJSON(c, http.StatusOK, liabilities)
}

// LiabilitiesCreate records an obligation.
func LiabilitiesCreate(c flamego.Context) {
	ctx := c.Request().Context()

	var req createLiabilityRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	principal, err := parseAmount(req.Principal)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	id, err := db.CreateLiability(ctx, db.CreateLiabilityInput{
		Name:      req.Name,
		Principal: principal,
	})
	if err != nil {
		logger.Error("Error creating liability", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// LiabilityPaymentCreate pays down a liability. The payment lands in the
// ledger as an expenditure entry the API will not let users delete.
func LiabilityPaymentCreate(c flamego.Context) {
	ctx := c.Request().Context()

	liabilityID, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	var req liabilityPaymentRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	expenditureID, err := db.RecordLiabilityPayment(ctx, db.LiabilityPaymentInput{
		LiabilityID: liabilityID,
		AccountID:   req.AccountID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("Error recording liability payment", "liability_id", liabilityID, "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"expenditure_id": expenditureID.String()})
}

// LiabilitiesDelete removes a liability, keeping its payment history.
func LiabilitiesDelete(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if err := db.DeleteLiability(ctx, id); err != nil {
		logger.Error("Error deleting liability", "liability_id", id, "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusOK, map[string]bool{"success": true})
}
