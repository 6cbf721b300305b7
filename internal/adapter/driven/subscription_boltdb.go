package driven

import (
	"context"
	"encoding/json"
	"errors"

	"go.etcd.io/bbolt"

	"github.com/balkantv/panelworker/internal/subscription"
)

const (
	subscriptionsBucket = "subscriptions"
)

// SubscriptionBoltDBRepository implements the SubscriptionRepository
// port using BoltDB.
type SubscriptionBoltDBRepository struct {
	db *bbolt.DB
}

// NewSubscriptionBoltDBRepository creates a new BoltDB-backed
// subscription repository. It initializes the required bucket if it
// doesn't exist.
func NewSubscriptionBoltDBRepository(db *bbolt.DB) (*SubscriptionBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(subscriptionsBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &SubscriptionBoltDBRepository{db: db}, nil
}

// subscriptionDTO is used for JSON serialization.
type subscriptionDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ExpiresOn string `json:"expires_on"`
}

func subscriptionFromDTO(dto subscriptionDTO) (subscription.Subscription, error) {
	return subscription.NewSubscription(dto.Username, dto.Email, dto.ExpiresOn)
}

// Save persists a new subscription to BoltDB.
func (r *SubscriptionBoltDBRepository) Save(ctx context.Context, sub subscription.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionsBucket))
		if bucket == nil {
			return errors.New("subscriptions bucket not found")
		}

		key := []byte(sub.Username())

		if bucket.Get(key) != nil {
			return subscription.ErrSubscriptionAlreadyExists
		}

		data, err := json.Marshal(subscriptionDTO{
			Username:  sub.Username(),
			Email:     sub.Email(),
			ExpiresOn: sub.ExpiresOn(),
		})
		if err != nil {
			return err
		}

		return bucket.Put(key, data)
	})
}

// Update replaces an existing subscription in BoltDB.
func (r *SubscriptionBoltDBRepository) Update(ctx context.Context, sub subscription.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionsBucket))
		if bucket == nil {
			return errors.New("subscriptions bucket not found")
		}

		key := []byte(sub.Username())

		if bucket.Get(key) == nil {
			return subscription.ErrSubscriptionNotFound
		}

		data, err := json.Marshal(subscriptionDTO{
			Username:  sub.Username(),
			Email:     sub.Email(),
			ExpiresOn: sub.ExpiresOn(),
		})
		if err != nil {
			return err
		}

		return bucket.Put(key, data)
	})
}

// FindAll retrieves all subscriptions from BoltDB.
func (r *SubscriptionBoltDBRepository) FindAll(ctx context.Context) ([]subscription.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var subscriptions []subscription.Subscription

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionsBucket))
		if bucket == nil {
			return errors.New("subscriptions bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			var dto subscriptionDTO
			if err := json.Unmarshal(v, &dto); err != nil {
				return err
			}

			sub, err := subscriptionFromDTO(dto)
			if err != nil {
				return err
			}

			subscriptions = append(subscriptions, sub)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	if subscriptions == nil {
		subscriptions = []subscription.Subscription{}
	}

	return subscriptions, nil
}

// FindByUsername retrieves a subscription by panel username from BoltDB.
func (r *SubscriptionBoltDBRepository) FindByUsername(ctx context.Context, username string) (subscription.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return subscription.Subscription{}, err
	}

	var sub subscription.Subscription

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionsBucket))
		if bucket == nil {
			return errors.New("subscriptions bucket not found")
		}

		data := bucket.Get([]byte(username))
		if data == nil {
			return subscription.ErrSubscriptionNotFound
		}

		var dto subscriptionDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}

		reconstructed, err := subscriptionFromDTO(dto)
		if err != nil {
			return err
		}

		sub = reconstructed
		return nil
	})

	return sub, err
}

// Delete removes a subscription by panel username from BoltDB.
func (r *SubscriptionBoltDBRepository) Delete(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(subscriptionsBucket))
		if bucket == nil {
			return errors.New("subscriptions bucket not found")
		}

		key := []byte(username)

		if bucket.Get(key) == nil {
			return subscription.ErrSubscriptionNotFound
		}

		return bucket.Delete(key)
	})
}
