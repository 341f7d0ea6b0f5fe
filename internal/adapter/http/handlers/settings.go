package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subash43e/taskapp/internal/adapter/http/dto"
	"github.com/subash43e/taskapp/internal/adapter/http/middleware"
	"github.com/subash43e/taskapp/internal/adapter/mail"
	"github.com/subash43e/taskapp/internal/adapter/notification"
	"github.com/subash43e/taskapp/internal/adapter/settings"
	"github.com/subash43e/taskapp/internal/app/notify"
	"github.com/subash43e/taskapp/internal/app/scheduler"
	"github.com/subash43e/taskapp/pkg/apierrors"
)

// SettingsHandler reads and writes the persisted local configuration and
// reconfigures the mailer, notifier and scheduler on every save.
type SettingsHandler struct {
	store     *settings.Store
	mailer    *mail.Mailer
	notifier  *notification.LogNotifier
	scheduler *scheduler.Scheduler
}

func NewSettingsHandler(store *settings.Store, mailer *mail.Mailer, notifier *notification.LogNotifier, sched *scheduler.Scheduler) *SettingsHandler {
	return &SettingsHandler{store: store, mailer: mailer, notifier: notifier, scheduler: sched}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentSettings())
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidSettings, lang),
		)
		return
	}

	// Absent fields keep their stored value; present fields overwrite,
	// including an explicit empty string to clear.
	values := make(map[string]string)
	if req.UserEmail != nil {
		values[settings.KeyUserEmail] = *req.UserEmail
	}
	if req.EmailNotifications != nil {
		values[settings.KeyEmailNotifications] = strconv.FormatBool(*req.EmailNotifications)
	}
	if req.BrowserNotifications != nil {
		values[settings.KeyBrowserNotifications] = strconv.FormatBool(*req.BrowserNotifications)
	}
	if req.DailyDigestTime != nil {
		values[settings.KeyDailyDigestTime] = *req.DailyDigestTime
	}
	if req.EmailProvider != nil {
		values[settings.KeyEmailProvider] = *req.EmailProvider
	}
	if req.Web3FormsKey != nil {
		values[settings.KeyWeb3FormsKey] = *req.Web3FormsKey
	}
	if req.CustomAPIEndpoint != nil {
		values[settings.KeyCustomAPIEndpoint] = *req.CustomAPIEndpoint
	}

	if err := h.store.SetAll(values); err != nil {
		zap.L().Error("failed to persist settings", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailSaveSettings, lang),
		)
		return
	}

	h.applySettings()
	c.JSON(http.StatusOK, h.currentSettings())
}

// SendTestEmail verifies the configured provider by sending one message to
// the stored recipient. Rejected while email notifications are switched off.
func (h *SettingsHandler) SendTestEmail(c *gin.Context) {
	lang := middleware.GetLang(c)

	to := h.store.GetDefault(settings.KeyUserEmail, "")
	if to == "" || !h.mailer.Enabled() {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidSettings, lang),
		)
		return
	}

	subject, body := notify.TestMessage()
	ok, err := h.mailer.Send(c.Request.Context(), to, subject, body)
	if err != nil || !ok {
		zap.L().Warn("test email not delivered", zap.Bool("accepted", ok), zap.Error(err))
		c.JSON(
			http.StatusBadGateway,
			apierrors.CreateError(http.StatusBadGateway, apierrors.MsgFailSendTestEmail, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SettingsHandler) currentSettings() dto.Settings {
	// A cleared digest time or provider falls back to the default.
	digest := h.store.GetDefault(settings.KeyDailyDigestTime, "")
	if digest == "" {
		digest = "08:00"
	}
	provider := h.store.GetDefault(settings.KeyEmailProvider, "")
	if provider == "" {
		provider = string(mail.ProviderMock)
	}

	return dto.Settings{
		UserEmail:            h.store.GetDefault(settings.KeyUserEmail, ""),
		EmailNotifications:   h.store.GetDefault(settings.KeyEmailNotifications, "true") != "false",
		BrowserNotifications: h.store.GetDefault(settings.KeyBrowserNotifications, "false") == "true",
		DailyDigestTime:      digest,
		EmailProvider:        provider,
		Web3FormsKey:         h.store.GetDefault(settings.KeyWeb3FormsKey, ""),
		CustomAPIEndpoint:    h.store.GetDefault(settings.KeyCustomAPIEndpoint, ""),
	}
}

// applySettings pushes the stored configuration into the live services.
func (h *SettingsHandler) applySettings() {
	current := h.currentSettings()

	h.mailer.Configure(mail.Config{
		Provider:    mail.Provider(current.EmailProvider),
		AccessKey:   current.Web3FormsKey,
		APIEndpoint: current.CustomAPIEndpoint,
	})
	h.mailer.SetEnabled(current.EmailNotifications)
	h.notifier.SetPermission(current.BrowserNotifications)
	h.scheduler.SetUserEmail(current.UserEmail)

	if hour, ok := parseDigestHour(current.DailyDigestTime); ok {
		h.scheduler.ScheduleDailyDigest(hour)
	}
}

func parseDigestHour(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
