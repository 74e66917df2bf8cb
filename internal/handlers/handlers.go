package handlers

import (
	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/config"
	"github.com/echoverse/backend/internal/feed"
	"github.com/echoverse/backend/internal/notify"
	"github.com/echoverse/backend/internal/votes"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Post         *PostHandler
	Comment      *CommentHandler
	User         *UserHandler
	Tag          *TagHandler
	Announcement *AnnouncementHandler
	Report       *ReportHandler
	Payment      *PaymentHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, notifier *notify.SMSNotifier) *Handler {
	ledger := votes.NewLedger(db)
	assembler := feed.NewAssembler(db)

	return &Handler{
		Auth:         NewAuthHandler(db, []byte(cfg.JWTSecret)),
		Post:         NewPostHandler(db, ledger, assembler),
		Comment:      NewCommentHandler(db),
		User:         NewUserHandler(db),
		Tag:          NewTagHandler(db),
		Announcement: NewAnnouncementHandler(db),
		Report:       NewReportHandler(db, notifier),
		Payment:      NewPaymentHandler(db, cfg.StripeSecretKey),
	}
}
