package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrDeviceNotFound = errors.New("device not found")

// DeviceRecord is one provisioned device owned by a user. thing_name is a
// dual-part identifier (PREFIX_shortId); only the part after the underscore
// is meaningful for display.
type DeviceRecord struct {
	UserID         string `json:"user_id"`
	ThingID        string `json:"thingId"`
	ThingName      string `json:"thingName"`
	ThingType      string `json:"thingType"`
	CertificateID  string `json:"certificateId"`
	CertificateARN string `json:"certificateArn"`
	ThingARN       string `json:"thingArn"`
}

// DeviceStore provides device record queries and registration.
type DeviceStore interface {
	// QueryByUser returns a user's device records, optionally narrowed to
	// one thing name
	QueryByUser(ctx context.Context, userID, nameFilter string) ([]DeviceRecord, error)

	// GetByThingID returns one device record by its thing id
	GetByThingID(ctx context.Context, userID, thingID string) (*DeviceRecord, error)

	// Put registers a device record
	Put(ctx context.Context, r *DeviceRecord) error

	// ThingNames returns the thing names of a user's devices, optionally
	// narrowed to one name
	ThingNames(ctx context.Context, userID, nameFilter string) ([]string, error)
}

// Devices returns a DeviceStore for this database.
func (db *DB) Devices() DeviceStore {
	return &deviceStore{db: db}
}

type deviceStore struct {
	db *DB
}

func (s *deviceStore) QueryByUser(ctx context.Context, userID, nameFilter string) ([]DeviceRecord, error) {
	query := `
		SELECT user_id, thing_id, thing_name, thing_type, certificate_id, certificate_arn, thing_arn
		FROM devices WHERE user_id = ?
	`
	args := []any{userID}
	if nameFilter != "" {
		query += ` AND thing_name = ?`
		args = append(args, nameFilter)
	}
	query += ` ORDER BY thing_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []DeviceRecord
	for rows.Next() {
		var r DeviceRecord
		if err := rows.Scan(&r.UserID, &r.ThingID, &r.ThingName, &r.ThingType,
			&r.CertificateID, &r.CertificateARN, &r.ThingARN); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *deviceStore) GetByThingID(ctx context.Context, userID, thingID string) (*DeviceRecord, error) {
	r := &DeviceRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, thing_id, thing_name, thing_type, certificate_id, certificate_arn, thing_arn
		FROM devices WHERE user_id = ? AND thing_id = ?
	`, userID, thingID).Scan(&r.UserID, &r.ThingID, &r.ThingName, &r.ThingType,
		&r.CertificateID, &r.CertificateARN, &r.ThingARN)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *deviceStore) Put(ctx context.Context, r *DeviceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (user_id, thing_id, thing_name, thing_type, certificate_id, certificate_arn, thing_arn)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.UserID, r.ThingID, r.ThingName, r.ThingType, r.CertificateID, r.CertificateARN, r.ThingARN)
	if err != nil {
		return fmt.Errorf("failed to register device %s: %w", r.ThingName, err)
	}
	return nil
}

func (s *deviceStore) ThingNames(ctx context.Context, userID, nameFilter string) ([]string, error) {
	records, err := s.QueryByUser(ctx, userID, nameFilter)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.ThingName)
	}
	return names, nil
}
