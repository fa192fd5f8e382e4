package worker

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"

	"tradelink/models"
	"tradelink/utils"
)

const maxNotifyAttempts = 3

// NotifyWorker drains the lead notification outbox. Delivery is best-effort:
// a failed send is retried on later ticks up to the attempt cap and never
// touches lead state.
type NotifyWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewNotifyWorker(db *gorm.DB, logger *log.Logger) *NotifyWorker {
	return &NotifyWorker{
		DB:     db,
		Logger: logger,
	}
}

func (nw *NotifyWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(5 * time.Second)

	nw.Logger.Println("Notify worker started")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			nw.Logger.Println("Notify worker shutting down...")
			return
		case <-ticker.C:
			nw.processPending()
		}
	}
}

func (nw *NotifyWorker) processPending() {
	var pending []models.LeadNotification
	err := nw.DB.Where("sent_at IS NULL AND attempts < ?", maxNotifyAttempts).
		Order("id").Limit(100).Find(&pending).Error
	if err != nil {
		nw.Logger.Printf("Error fetching pending notifications: %v", err)
		return
	}

	for _, notification := range pending {
		if err := nw.dispatch(&notification); err != nil {
			nw.Logger.Printf("Error dispatching notification %d: %v", notification.ID, err)
			nw.recordFailure(&notification, err)
			continue
		}
		now := time.Now()
		if err := nw.DB.Model(&notification).Updates(map[string]interface{}{
			"sent_at":  &now,
			"attempts": notification.Attempts + 1,
		}).Error; err != nil {
			nw.Logger.Printf("Error marking notification %d sent: %v", notification.ID, err)
		}
	}
}

func (nw *NotifyWorker) dispatch(notification *models.LeadNotification) error {
	var lead models.Lead
	if err := nw.DB.Preload("Product").First(&lead, notification.LeadID).Error; err != nil {
		return err
	}

	var recipient models.User
	if err := nw.DB.First(&recipient, notification.RecipientID).Error; err != nil {
		return err
	}

	switch notification.Kind {
	case models.NotificationSellerNewLead:
		return utils.SendSellerNewLeadEmail(recipient.Email, lead.Category, lead.Message, lead.Quantity)
	case models.NotificationBuyerAck:
		return utils.SendBuyerAckEmail(recipient.Email, lead.Product.Title, lead.Category)
	default:
		nw.Logger.Printf("Unknown notification kind %q for %d", notification.Kind, notification.ID)
		return nil
	}
}

func (nw *NotifyWorker) recordFailure(notification *models.LeadNotification, sendErr error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "notify_worker")
		scope.SetExtra("notification_id", notification.ID)
		scope.SetExtra("lead_id", notification.LeadID)
		sentry.CaptureException(sendErr)
	})

	if err := nw.DB.Model(notification).Updates(map[string]interface{}{
		"attempts":   notification.Attempts + 1,
		"last_error": sendErr.Error(),
	}).Error; err != nil {
		nw.Logger.Printf("Error recording notification failure %d: %v", notification.ID, err)
	}
}
