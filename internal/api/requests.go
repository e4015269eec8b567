package api

import (
	"github.com/Veraticus/expense-tracker/internal/model"
)

type expenseRequest struct {
	Date       string      `json:"date" binding:"required"`
	CategoryID string      `json:"categoryId" binding:"required"`
	Note       string      `json:"note"`
	Amount     model.Money `json:"amount"`
}

type categoryRequest struct {
	Name  string     `json:"name" binding:"required"`
	Icon  model.Icon `json:"icon"`
	Color string     `json:"color"`
}

type budgetRequest struct {
	CategoryID     string      `json:"categoryId" binding:"required"`
	MonthlyLimit   model.Money `json:"monthlyLimit"`
	AlertThreshold *int        `json:"alertThreshold"`
}

type goalRequest struct {
	Deadline      string      `json:"deadline"`
	Name          string      `json:"name" binding:"required"`
	Icon          model.Icon  `json:"icon"`
	Color         string      `json:"color"`
	TargetAmount  model.Money `json:"targetAmount"`
	InitialAmount model.Money `json:"initialAmount"`
}

type depositRequest struct {
	Amount model.Money `json:"amount"`
}

type resolveRequest struct {
	PendingID     string `json:"pendingId"`
	Choice        string `json:"choice" binding:"required,oneof=keep move"`
	DestinationID string `json:"destinationId" binding:"required_if=Choice move"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// DefaultAlertThreshold is used when a budget request leaves it out.
const DefaultAlertThreshold = 80
