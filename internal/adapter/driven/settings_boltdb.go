package driven

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.etcd.io/bbolt"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/settings"
)

const (
	// settingsBucket holds the public half of the panel settings.
	settingsBucket = "settings"
	// secureConfigBucket holds key material and credentials. Nothing
	// in this bucket is ever returned unmasked by the services.
	secureConfigBucket = "secure_config"

	gatewayPublicKey = "gateway"
	gatewayKeysKey   = "gateway_keys"
	adminCredsKey    = "admin"
)

// SettingsBoltDBRepository implements the SettingsRepository port
// using BoltDB. The gateway configuration is split across two buckets
// the way the panel split its settings documents: public state in one,
// key material in another.
type SettingsBoltDBRepository struct {
	db *bbolt.DB
}

// NewSettingsBoltDBRepository creates a new BoltDB-backed settings
// repository. It initializes the required buckets if they don't exist.
func NewSettingsBoltDBRepository(db *bbolt.DB) (*SettingsBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(settingsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(secureConfigBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &SettingsBoltDBRepository{db: db}, nil
}

// gatewayPublicDTO is the public settings document.
type gatewayPublicDTO struct {
	Enabled     bool      `json:"enabled"`
	Mode        string    `json:"mode"`
	CallbackURL string    `json:"callback_url"`
	HasKeys     bool      `json:"has_keys"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// gatewayKeysDTO is the secure settings document.
type gatewayKeysDTO struct {
	APIKey    string    `json:"api_key"`
	SecretKey string    `json:"secret_key"`
	Mode      string    `json:"mode"`
	UpdatedAt time.Time `json:"updated_at"`
}

// adminCredsDTO is the stored administrator credential pair.
type adminCredsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SaveGateway persists a gateway configuration, public state and key
// material in their respective buckets.
func (r *SettingsBoltDBRepository) SaveGateway(ctx context.Context, gw settings.Gateway) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()

	publicData, err := json.Marshal(gatewayPublicDTO{
		Enabled:     gw.Enabled(),
		Mode:        gw.Mode(),
		CallbackURL: gw.CallbackURL(),
		HasKeys:     true,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}

	keysData, err := json.Marshal(gatewayKeysDTO{
		APIKey:    gw.APIKey(),
		SecretKey: gw.SecretKey(),
		Mode:      gw.Mode(),
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		public := tx.Bucket([]byte(settingsBucket))
		secure := tx.Bucket([]byte(secureConfigBucket))
		if public == nil || secure == nil {
			return errors.New("settings buckets not found")
		}

		if err := public.Put([]byte(gatewayPublicKey), publicData); err != nil {
			return err
		}
		return secure.Put([]byte(gatewayKeysKey), keysData)
	})
}

// FindGateway retrieves the stored gateway configuration.
func (r *SettingsBoltDBRepository) FindGateway(ctx context.Context) (settings.Gateway, error) {
	if err := ctx.Err(); err != nil {
		return settings.Gateway{}, err
	}

	var gw settings.Gateway

	err := r.db.View(func(tx *bbolt.Tx) error {
		public := tx.Bucket([]byte(settingsBucket))
		secure := tx.Bucket([]byte(secureConfigBucket))
		if public == nil || secure == nil {
			return errors.New("settings buckets not found")
		}

		keysData := secure.Get([]byte(gatewayKeysKey))
		if keysData == nil {
			return settings.ErrSettingsNotFound
		}

		var keys gatewayKeysDTO
		if err := json.Unmarshal(keysData, &keys); err != nil {
			return err
		}

		var pub gatewayPublicDTO
		if publicData := public.Get([]byte(gatewayPublicKey)); publicData != nil {
			if err := json.Unmarshal(publicData, &pub); err != nil {
				return err
			}
		}

		reconstructed, err := settings.NewGateway(keys.APIKey, keys.SecretKey, pub.CallbackURL, keys.Mode, pub.Enabled)
		if err != nil {
			return err
		}

		gw = reconstructed
		return nil
	})

	return gw, err
}

// FindAdminCredentials retrieves the administrator credential pair.
func (r *SettingsBoltDBRepository) FindAdminCredentials(ctx context.Context) (admin.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return admin.Credentials{}, err
	}

	var creds admin.Credentials

	err := r.db.View(func(tx *bbolt.Tx) error {
		secure := tx.Bucket([]byte(secureConfigBucket))
		if secure == nil {
			return errors.New("settings buckets not found")
		}

		data := secure.Get([]byte(adminCredsKey))
		if data == nil {
			return admin.ErrNotFound
		}

		var dto adminCredsDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}

		reconstructed, err := admin.NewCredentials(dto.Username, dto.Password)
		if err != nil {
			return err
		}

		creds = reconstructed
		return nil
	})

	return creds, err
}

// SaveAdminCredentials stores the administrator credential pair.
func (r *SettingsBoltDBRepository) SaveAdminCredentials(ctx context.Context, creds admin.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(adminCredsDTO{
		Username: creds.Username(),
		Password: creds.Password(),
	})
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		secure := tx.Bucket([]byte(secureConfigBucket))
		if secure == nil {
			return errors.New("settings buckets not found")
		}
		return secure.Put([]byte(adminCredsKey), data)
	})
}
