package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
)

// BotInteraction is the append-only audit trail of user actions. The
// pipeline only ever writes it, except for the recent-activity statistic.
type BotInteraction struct {
	ID               int       `gorm:"primary_key" json:"id"`
	TelegramUserId   int64     `gorm:"not null;index" json:"telegram_user_id"`
	TelegramUsername string    `gorm:"size:100" json:"telegram_username"`
	FirstName        string    `gorm:"size:100" json:"first_name"`
	LastName         string    `gorm:"size:100" json:"last_name"`
	ActionType       string    `gorm:"size:50;not null;index" json:"action_type"`
	PartnerInn       string    `gorm:"size:20" json:"partner_inn"`
	SearchQuery      string    `gorm:"type:text" json:"search_query"`
	ResponseTimeMs   int64     `json:"response_time_ms"`
	Success          *bool     `gorm:"not null;default:true" json:"success"`
	ErrorMessage     string    `gorm:"type:text" json:"error_message"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

type UserInfo struct {
	Id        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ActionData struct {
	ActionType     string `json:"action_type"`
	PartnerInn     string `json:"partner_inn"`
	SearchQuery    string `json:"search_query"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Success        bool   `json:"success"`
	ErrorMessage   string `json:"error_message"`
}

// LogInteraction is fire-and-forget: it must never fail the operation it
// annotates, so store errors are logged and discarded.
func LogInteraction(ctx context.Context, user UserInfo, action ActionData) {
	success := action.Success
	interaction := BotInteraction{
		TelegramUserId:   user.Id,
		TelegramUsername: user.Username,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		ActionType:       action.ActionType,
		PartnerInn:       action.PartnerInn,
		SearchQuery:      action.SearchQuery,
		ResponseTimeMs:   action.ResponseTimeMs,
		Success:          &success,
		ErrorMessage:     action.ErrorMessage,
	}

	db := config.GetDB()
	if db == nil {
		return
	}
	if err := db.WithContext(ctx).Create(&interaction).Error; err != nil {
		config.LogError(ctx, config.GetLogger(), "models", "LogInteraction", action.ActionType, user, err)
	}
}
