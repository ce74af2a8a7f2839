package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/enseniamelo/tutor-verification-service/internal/config"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// Relay listens for PostgreSQL NOTIFY signals on the outbox_channel and
// publishes committed verification events to RabbitMQ. Events are written to
// the outbox in the same transaction as the workflow write, so everything the
// relay sees reflects committed state.
type Relay struct {
	db        *sql.DB
	publisher ports.VerificationEventPublisher
	listener  *pq.Listener
	dbURL     string
	dbCB      *gobreaker.CircuitBreaker

	// mu guards the health state; it is written by the Start goroutine and
	// read by the health server's probe handlers.
	mu            sync.Mutex
	lastProcessed time.Time
	isHealthy     bool
}

// NewRelay creates a new outbox relay that listens for PostgreSQL notifications.
func NewRelay(db *sql.DB, dbURL string, publisher ports.VerificationEventPublisher) *Relay {
	dbCB := config.NewCircuitBreaker("Relay-PostgreSQL")

	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          dbCB,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports whether the relay process is alive (liveness probe).
// An open circuit breaker is degraded but recoverable, so it does not fail
// liveness.
func (r *Relay) IsHealthy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isHealthy
}

// IsReady returns true if the relay can process events (for readiness probes).
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastProcessed = time.Now()
	r.isHealthy = true
}

func (r *Relay) markUnhealthy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isHealthy = false
}

// Start begins listening for outbox notifications and processing events.
// This is a blocking call that runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("outbox relay: listener error: %v", err)
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	log.Printf("outbox relay: listening on '%s' for notifications...", outboxChannelName)

	// Process any unprocessed events on startup (catch-up)
	if err := r.processUnprocessedEvents(ctx); err != nil {
		log.Printf("outbox relay: error processing startup backlog: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("outbox relay: shutting down...")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				log.Println("outbox relay: received nil notification (reconnecting...)")
				r.markUnhealthy()
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				log.Printf("outbox relay: error processing event %s: %v", notification.Extra, err)
			} else {
				r.markProcessed()
			}

		case <-time.After(periodicProcessInterval):
			// Periodic ping to keep connection alive and catch any missed events
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				log.Printf("outbox relay: error in periodic processing: %v", err)
			} else {
				r.markProcessed()
			}
		}
	}
}

// processEventByID processes a single event by its ID.
func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publish(ctx, tx, id, eventType, payload); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents processes all unprocessed events (catch-up/recovery).
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.publish(ctx, tx, rec.ID, rec.EventType, rec.Payload); err != nil {
				log.Printf("outbox relay: failed to publish event %s: %v", rec.ID, err)
				continue
			}

			if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}

			log.Printf("outbox relay: processed event %s", rec.ID)
		}

		return nil, tx.Commit()
	})
	return err
}

// publish decodes one outbox row and hands it to the broker. A payload that
// cannot be decoded is marked processed so it does not retry forever.
func (r *Relay) publish(ctx context.Context, tx *sql.Tx, id, eventType string, payload []byte) error {
	var evt ports.VerificationEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		log.Printf("outbox relay: invalid payload for event %s: %v", id, err)
		_, _ = tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
		return nil
	}
	return r.publisher.PublishVerificationEvent(ctx, eventType, evt)
}
