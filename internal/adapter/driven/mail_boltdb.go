package driven

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/balkantv/panelworker/internal/port/driven"
)

const (
	mailQueueBucket = "mail_queue"
)

// MailBoltDBQueue implements the MailQueue port using BoltDB. The
// delivery pipeline drains the bucket out of band; the worker only
// ever appends to it.
type MailBoltDBQueue struct {
	db *bbolt.DB
}

// NewMailBoltDBQueue creates a new BoltDB-backed mail queue. It
// initializes the required bucket if it doesn't exist.
func NewMailBoltDBQueue(db *bbolt.DB) (*MailBoltDBQueue, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(mailQueueBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &MailBoltDBQueue{db: db}, nil
}

// mailDTO is used for JSON serialization.
type mailDTO struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Enqueue adds a message to the outbound queue. A missing ID is filled
// in; a missing enqueue time is set to now.
func (q *MailBoltDBQueue) Enqueue(ctx context.Context, mail driven.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if mail.To == "" {
		return errors.New("mail destination address cannot be empty")
	}
	if mail.ID == "" {
		mail.ID = uuid.NewString()
	}
	if mail.EnqueuedAt.IsZero() {
		mail.EnqueuedAt = time.Now().UTC()
	}

	data, err := json.Marshal(mailDTO{
		ID:         mail.ID,
		To:         mail.To,
		Subject:    mail.Subject,
		HTML:       mail.HTML,
		EnqueuedAt: mail.EnqueuedAt,
	})
	if err != nil {
		return err
	}

	return q.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(mailQueueBucket))
		if bucket == nil {
			return errors.New("mail queue bucket not found")
		}
		return bucket.Put([]byte(mail.ID), data)
	})
}

// Pending returns all messages still waiting in the queue.
func (q *MailBoltDBQueue) Pending(ctx context.Context) ([]driven.Mail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mails []driven.Mail

	err := q.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(mailQueueBucket))
		if bucket == nil {
			return errors.New("mail queue bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			var dto mailDTO
			if err := json.Unmarshal(v, &dto); err != nil {
				return err
			}
			mails = append(mails, driven.Mail{
				ID:         dto.ID,
				To:         dto.To,
				Subject:    dto.Subject,
				HTML:       dto.HTML,
				EnqueuedAt: dto.EnqueuedAt,
			})
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	if mails == nil {
		mails = []driven.Mail{}
	}

	return mails, nil
}
