package team

import (
	"errors"
	"testing"
	"time"

	domain "mainstage/internal/domain/team"
)

// receive waits for one snapshot with a timeout so a broken feed fails fast.
func receive(t *testing.T, sub *Subscription) (domain.Record, bool) {
	t.Helper()
	select {
	case rec, ok := <-sub.Updates():
		return rec, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return domain.Record{}, false
	}
}

// TestFeed_PublishDeliversToSubscriber verifies the basic publish path.
func TestFeed_PublishDeliversToSubscriber(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	defer sub.Close()

	feed.Publish(domain.Record{ID: "tamu", DisplayName: "Texas A&M", Version: 2})

	rec, ok := receive(t, sub)
	if !ok {
		t.Fatal("channel closed unexpectedly")
	}
	if rec.Version != 2 || rec.DisplayName != "Texas A&M" {
		t.Errorf("got version=%d name=%q, want 2/Texas A&M", rec.Version, rec.DisplayName)
	}
}

// TestFeed_PublishScopedToTeam verifies a publish only reaches its own team.
func TestFeed_PublishScopedToTeam(t *testing.T) {
	feed := NewFeed()
	tamu := feed.Subscribe("tamu")
	rice := feed.Subscribe("rice")
	defer tamu.Close()
	defer rice.Close()

	feed.Publish(domain.Record{ID: "tamu", Version: 2})

	receive(t, tamu)
	select {
	case rec := <-rice.Updates():
		t.Errorf("rice subscriber received foreign snapshot: %+v", rec)
	default:
	}
}

// TestFeed_StaleSnapshotDropped verifies version ordering: a snapshot at or
// below the last delivered version never reaches the subscriber.
func TestFeed_StaleSnapshotDropped(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	defer sub.Close()

	feed.Publish(domain.Record{ID: "tamu", Version: 5})
	rec, _ := receive(t, sub)
	if rec.Version != 5 {
		t.Fatalf("version = %d, want 5", rec.Version)
	}

	// Older and equal versions must be dropped.
	feed.Publish(domain.Record{ID: "tamu", Version: 3})
	feed.Publish(domain.Record{ID: "tamu", Version: 5})

	select {
	case rec := <-sub.Updates():
		t.Errorf("stale snapshot delivered: version %d", rec.Version)
	default:
	}
}

// TestFeed_SlowSubscriberCoalesces verifies a slow subscriber sees only the
// latest snapshot, never blocks the publisher, and skips intermediates.
func TestFeed_SlowSubscriberCoalesces(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	defer sub.Close()

	// Subscriber has not drained; publish three versions back to back.
	feed.Publish(domain.Record{ID: "tamu", Version: 2})
	feed.Publish(domain.Record{ID: "tamu", Version: 3})
	feed.Publish(domain.Record{ID: "tamu", Version: 4})

	rec, _ := receive(t, sub)
	if rec.Version != 4 {
		t.Errorf("coalesced version = %d, want 4 (latest wins)", rec.Version)
	}

	select {
	case rec := <-sub.Updates():
		t.Errorf("extra snapshot delivered: version %d", rec.Version)
	default:
	}
}

// TestFeed_MultipleSubscribersSameTeam verifies fan-out to every subscriber.
func TestFeed_MultipleSubscribersSameTeam(t *testing.T) {
	feed := NewFeed()
	a := feed.Subscribe("tamu")
	b := feed.Subscribe("tamu")
	defer a.Close()
	defer b.Close()

	feed.Publish(domain.Record{ID: "tamu", Version: 2})

	if rec, _ := receive(t, a); rec.Version != 2 {
		t.Errorf("subscriber a version = %d, want 2", rec.Version)
	}
	if rec, _ := receive(t, b); rec.Version != 2 {
		t.Errorf("subscriber b version = %d, want 2", rec.Version)
	}
}

// TestFeed_CloseStopsDelivery verifies a closed subscription never receives
// further snapshots and its channel is closed.
func TestFeed_CloseStopsDelivery(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	sub.Close()

	feed.Publish(domain.Record{ID: "tamu", Version: 2})

	if _, ok := <-sub.Updates(); ok {
		t.Error("expected closed channel after Close")
	}
	if err := sub.Err(); err != nil {
		t.Errorf("Err after Close = %v, want nil", err)
	}
}

// TestFeed_CloseIsIdempotent verifies double Close does not panic.
func TestFeed_CloseIsIdempotent(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	sub.Close()
	sub.Close()
}

// TestFeed_FailTerminatesSubscribers verifies Fail closes every subscription
// on the team with the terminal error.
func TestFeed_FailTerminatesSubscribers(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	other := feed.Subscribe("rice")
	defer other.Close()

	wantErr := errors.New("snapshot load failed")
	feed.Fail("tamu", wantErr)

	if _, ok := <-sub.Updates(); ok {
		t.Error("expected closed channel after Fail")
	}
	if !errors.Is(sub.Err(), wantErr) {
		t.Errorf("Err = %v, want %v", sub.Err(), wantErr)
	}

	// Other teams are unaffected.
	feed.Publish(domain.Record{ID: "rice", Version: 2})
	if rec, _ := receive(t, other); rec.Version != 2 {
		t.Errorf("rice subscriber version = %d, want 2", rec.Version)
	}
}

// TestFeed_ResubscribeAfterFail verifies a team can be watched again after a
// failure terminated its subscriptions.
func TestFeed_ResubscribeAfterFail(t *testing.T) {
	feed := NewFeed()
	old := feed.Subscribe("tamu")
	feed.Fail("tamu", errors.New("boom"))
	<-old.Updates()

	sub := feed.Subscribe("tamu")
	defer sub.Close()
	feed.Publish(domain.Record{ID: "tamu", Version: 7})

	if rec, _ := receive(t, sub); rec.Version != 7 {
		t.Errorf("version after resubscribe = %d, want 7", rec.Version)
	}
}

// TestFeed_ConcurrentPublish verifies racing publishers leave the subscriber
// converged on the highest version, with no panics or blocked writers.
func TestFeed_ConcurrentPublish(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("tamu")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := int64(1); v <= 50; v++ {
			feed.Publish(domain.Record{ID: "tamu", Version: v})
		}
	}()
	<-done

	var last int64
	for {
		select {
		case rec := <-sub.Updates():
			if rec.Version <= last {
				t.Fatalf("out of order delivery: %d after %d", rec.Version, last)
			}
			last = rec.Version
		default:
			if last != 50 {
				t.Errorf("final version = %d, want 50", last)
			}
			return
		}
	}
}
