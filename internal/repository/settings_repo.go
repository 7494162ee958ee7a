// internal/repository/settings_repo.go
package repository

import "context"

// SettingsRepository stores small operational key/value state, such as the
// last POS sync checkpoint.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
