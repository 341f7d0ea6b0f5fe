package ports

import "context"

// Mailer is the email transport collaborator. Send reports whether the
// provider accepted the message; transport failures come back as errors and
// are never retried by callers.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (bool, error)
}

// Notifier is the local notification surface. Implementations without a
// usable surface report Supported() == false and drop notifications silently.
type Notifier interface {
	Supported() bool
	RequestPermission() bool
	PermissionGranted() bool
	Show(title, body, tag string)
}

// SettingsStore persists local configuration between runs.
type SettingsStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}
