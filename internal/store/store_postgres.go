package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
)

// PostgresStore persists messages and recipients in two tables. Writes are
// upserts keyed on the entity id: the dispatch coordinator saves each
// recipient as its task completes and the aggregate once at the end.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveRecipient(ctx context.Context, messageID uuid.UUID, rcpt *domain.Recipient) error {
	query := `
		INSERT INTO recipients (id, message_id, party_id, message_type, status, status_detail, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    status_detail = EXCLUDED.status_detail,
		    external_id = EXCLUDED.external_id
	`
	_, err := s.db.ExecContext(ctx, query,
		rcpt.ID,
		messageID,
		nullable(rcpt.PartyID),
		string(rcpt.MessageType),
		string(rcpt.Status),
		nullable(rcpt.StatusDetail),
		nullable(rcpt.ExternalID),
	)
	if err != nil {
		return fmt.Errorf("upsert recipient: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveMessage(ctx context.Context, msg *domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin message save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO messages (id, municipality_id, department, sent_by, subject, body, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET subject = EXCLUDED.subject,
		    body = EXCLUDED.body,
		    content_type = EXCLUDED.content_type
	`
	_, err = tx.ExecContext(ctx, query,
		msg.ID,
		msg.MunicipalityID,
		msg.Department,
		msg.SentBy,
		msg.Subject,
		msg.Body,
		msg.ContentType,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert message: %w", err)
	}

	for _, rcpt := range msg.Recipients {
		query := `
			INSERT INTO recipients (id, message_id, party_id, message_type, status, status_detail, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET status = EXCLUDED.status,
			    status_detail = EXCLUDED.status_detail,
			    external_id = EXCLUDED.external_id
		`
		_, err = tx.ExecContext(ctx, query,
			rcpt.ID,
			msg.ID,
			nullable(rcpt.PartyID),
			string(rcpt.MessageType),
			string(rcpt.Status),
			nullable(rcpt.StatusDetail),
			nullable(rcpt.ExternalID),
		)
		if err != nil {
			return fmt.Errorf("upsert recipient %s: %w", rcpt.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit message save: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMessage(ctx context.Context, municipalityID string, id uuid.UUID) (*domain.Message, error) {
	msg := &domain.Message{}
	query := `
		SELECT id, municipality_id, department, sent_by, subject, body, content_type, created_at
		FROM messages
		WHERE id = $1 AND municipality_id = $2
	`
	err := s.db.QueryRowContext(ctx, query, id, municipalityID).Scan(
		&msg.ID,
		&msg.MunicipalityID,
		&msg.Department,
		&msg.SentBy,
		&msg.Subject,
		&msg.Body,
		&msg.ContentType,
		&msg.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select message: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, party_id, message_type, status, status_detail, external_id
		FROM recipients
		WHERE message_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select recipients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rcpt := &domain.Recipient{}
		var partyID, statusDetail, externalID sql.NullString
		var messageType, status string
		if err := rows.Scan(&rcpt.ID, &partyID, &messageType, &status, &statusDetail, &externalID); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		rcpt.PartyID = partyID.String
		rcpt.MessageType = domain.MessageType(messageType)
		rcpt.Status = domain.RecipientStatus(status)
		rcpt.StatusDetail = statusDetail.String
		rcpt.ExternalID = externalID.String
		msg.Recipients = append(msg.Recipients, rcpt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}
	return msg, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
