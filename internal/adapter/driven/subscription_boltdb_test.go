package driven

import (
	"context"
	"testing"

	"go.etcd.io/bbolt"

	"github.com/balkantv/panelworker/internal/subscription"
)

func TestNewSubscriptionBoltDBRepository(t *testing.T) {
	t.Run("creates repository and bucket successfully", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo == nil {
			t.Fatal("expected non-nil repository")
		}

		// Verify bucket was created
		err = db.View(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket([]byte(subscriptionsBucket))
			if bucket == nil {
				t.Error("expected subscriptions bucket to exist")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("failed to verify bucket: %v", err)
		}
	})

	t.Run("returns error for nil database", func(t *testing.T) {
		repo, err := NewSubscriptionBoltDBRepository(nil)
		if err == nil {
			t.Fatal("expected error for nil database")
		}
		if repo != nil {
			t.Error("expected nil repository")
		}
	})
}

func TestSubscriptionBoltDBRepository_Save(t *testing.T) {
	t.Run("saves a new subscription successfully", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, err := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		if err != nil {
			t.Fatalf("failed to create subscription: %v", err)
		}

		ctx := context.Background()
		err = repo.Save(ctx, sub)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		found, err := repo.FindByUsername(ctx, "mehmet")
		if err != nil {
			t.Fatalf("failed to find saved subscription: %v", err)
		}
		if found.Username() != "mehmet" {
			t.Errorf("expected username 'mehmet', got %q", found.Username())
		}
		if found.Email() != "mehmet@example.com" {
			t.Errorf("expected email 'mehmet@example.com', got %q", found.Email())
		}
		if found.ExpiresOn() != "2026-09-15" {
			t.Errorf("expected expiry '2026-09-15', got %q", found.ExpiresOn())
		}
	})

	t.Run("returns error when subscription already exists", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, err := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		if err != nil {
			t.Fatalf("failed to create subscription: %v", err)
		}

		ctx := context.Background()
		err = repo.Save(ctx, sub)
		if err != nil {
			t.Fatalf("failed to save first subscription: %v", err)
		}

		// Try to save again
		err = repo.Save(ctx, sub)
		if err != subscription.ErrSubscriptionAlreadyExists {
			t.Fatalf("expected ErrSubscriptionAlreadyExists, got %v", err)
		}
	})

	t.Run("saves subscription without email", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, err := subscription.NewSubscription("anon", "", "2026-09-15")
		if err != nil {
			t.Fatalf("failed to create subscription: %v", err)
		}

		ctx := context.Background()
		err = repo.Save(ctx, sub)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		found, err := repo.FindByUsername(ctx, "anon")
		if err != nil {
			t.Fatalf("failed to find saved subscription: %v", err)
		}
		if found.HasEmail() {
			t.Error("expected subscription without email")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, err := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		if err != nil {
			t.Fatalf("failed to create subscription: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		err = repo.Save(ctx, sub)
		if err == nil {
			t.Fatal("expected error due to cancelled context")
		}
	})
}

func TestSubscriptionBoltDBRepository_Update(t *testing.T) {
	t.Run("replaces an existing subscription", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		ctx := context.Background()
		sub, _ := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		if err := repo.Save(ctx, sub); err != nil {
			t.Fatalf("failed to save subscription: %v", err)
		}

		renewed, err := sub.Renew("2027-09-15")
		if err != nil {
			t.Fatalf("failed to renew subscription: %v", err)
		}
		if err := repo.Update(ctx, renewed); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		found, err := repo.FindByUsername(ctx, "mehmet")
		if err != nil {
			t.Fatalf("failed to find updated subscription: %v", err)
		}
		if found.ExpiresOn() != "2027-09-15" {
			t.Errorf("expected expiry '2027-09-15', got %q", found.ExpiresOn())
		}
	})

	t.Run("returns error when subscription not found", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, _ := subscription.NewSubscription("ghost", "", "2026-09-15")
		err = repo.Update(context.Background(), sub)
		if err != subscription.ErrSubscriptionNotFound {
			t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
		}
	})
}

func TestSubscriptionBoltDBRepository_FindAll(t *testing.T) {
	t.Run("returns empty slice when no subscriptions exist", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		ctx := context.Background()
		subscriptions, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if subscriptions == nil {
			t.Fatal("expected non-nil slice")
		}
		if len(subscriptions) != 0 {
			t.Errorf("expected empty slice, got %d subscriptions", len(subscriptions))
		}
	})

	t.Run("returns all saved subscriptions", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		ctx := context.Background()

		sub1, _ := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		sub2, _ := subscription.NewSubscription("ayse", "ayse@example.com", "2026-10-01")
		sub3, _ := subscription.NewSubscription("anon", "", "2026-09-15")

		for _, sub := range []subscription.Subscription{sub1, sub2, sub3} {
			if err := repo.Save(ctx, sub); err != nil {
				t.Fatalf("failed to save subscription %q: %v", sub.Username(), err)
			}
		}

		subscriptions, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(subscriptions) != 3 {
			t.Fatalf("expected 3 subscriptions, got %d", len(subscriptions))
		}

		foundNoEmail := false
		for _, sub := range subscriptions {
			if sub.Username() == "anon" {
				if sub.HasEmail() {
					t.Error("expected anon to have no email")
				}
				foundNoEmail = true
			}
		}
		if !foundNoEmail {
			t.Error("did not find the subscription without email")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err = repo.FindAll(ctx)
		if err == nil {
			t.Fatal("expected error due to cancelled context")
		}
	})
}

func TestSubscriptionBoltDBRepository_FindByUsername(t *testing.T) {
	t.Run("finds existing subscription", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, err := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		if err != nil {
			t.Fatalf("failed to create subscription: %v", err)
		}

		ctx := context.Background()
		if err := repo.Save(ctx, sub); err != nil {
			t.Fatalf("failed to save subscription: %v", err)
		}

		found, err := repo.FindByUsername(ctx, "mehmet")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found.Username() != "mehmet" {
			t.Errorf("expected username 'mehmet', got %q", found.Username())
		}
	})

	t.Run("returns error when subscription not found", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		_, err = repo.FindByUsername(context.Background(), "nonexistent")
		if err != subscription.ErrSubscriptionNotFound {
			t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
		}
	})
}

func TestSubscriptionBoltDBRepository_Delete(t *testing.T) {
	t.Run("deletes existing subscription", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		sub, err := subscription.NewSubscription("mehmet", "mehmet@example.com", "2026-09-15")
		if err != nil {
			t.Fatalf("failed to create subscription: %v", err)
		}

		ctx := context.Background()
		if err := repo.Save(ctx, sub); err != nil {
			t.Fatalf("failed to save subscription: %v", err)
		}

		if err := repo.Delete(ctx, "mehmet"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err = repo.FindByUsername(ctx, "mehmet")
		if err != subscription.ErrSubscriptionNotFound {
			t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
		}
	})

	t.Run("returns error when subscription not found", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewSubscriptionBoltDBRepository(db)
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		err = repo.Delete(context.Background(), "nonexistent")
		if err != subscription.ErrSubscriptionNotFound {
			t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
		}
	})
}
