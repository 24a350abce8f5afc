package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// ==================== Contact Store ====================

// contactStore implements driven.ContactStore.
type contactStore struct {
	store *Store
}

var _ driven.ContactStore = (*contactStore)(nil)

// Save stores or updates a contact, assigning an ID when absent.
func (c *contactStore) Save(ctx context.Context, contact domain.Contact) (string, error) {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO contacts (id, owner, name, email, role, organization)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			organization = excluded.organization
	`, contact.ID, contact.Owner, contact.Name, contact.Email, contact.Role, contact.Organization)
	if err != nil {
		return "", fmt.Errorf("saving contact: %w", err)
	}
	return contact.ID, nil
}

// List returns the owner's contacts ordered by name.
func (c *contactStore) List(ctx context.Context, owner string) ([]domain.Contact, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, owner, name, email, role, organization
		FROM contacts WHERE owner = ? ORDER BY name
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(&contact.ID, &contact.Owner, &contact.Name,
			&contact.Email, &contact.Role, &contact.Organization); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// LinkToTopic associates a contact with a topic. Re-linking is a no-op.
func (c *contactStore) LinkToTopic(ctx context.Context, owner, contactID, topicID string) error {
	row := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contacts WHERE id = ? AND owner = ?", contactID, owner)
	var count int
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("checking contact: %w", err)
	}
	if count == 0 {
		return domain.ErrNotFound
	}

	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO contact_topics (contact_id, topic_id) VALUES (?, ?)
		ON CONFLICT(contact_id, topic_id) DO NOTHING
	`, contactID, topicID)
	if err != nil {
		return fmt.Errorf("linking contact: %w", err)
	}
	return nil
}

// LinkedTopics returns the topic IDs linked to a contact.
func (c *contactStore) LinkedTopics(ctx context.Context, owner, contactID string) ([]string, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT ct.topic_id FROM contact_topics ct
		JOIN contacts c ON c.id = ct.contact_id
		WHERE ct.contact_id = ? AND c.owner = ?
		ORDER BY ct.topic_id
	`, contactID, owner)
	if err != nil {
		return nil, fmt.Errorf("listing linked topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topicID string
		if err := rows.Scan(&topicID); err != nil {
			return nil, fmt.Errorf("scanning topic id: %w", err)
		}
		topics = append(topics, topicID)
	}
	return topics, rows.Err()
}
