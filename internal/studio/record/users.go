package record

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/models"
)

// blobTypeProfile marks rows that hold a user profile rather than an asset.
const blobTypeProfile = "USER_PROFILE"

// profileBlob is the Notes payload of a USER_PROFILE row. Passwords are
// stored as bcrypt hashes, never in clear text.
type profileBlob struct {
	Type         string              `json:"type"`
	Name         string              `json:"name"`
	PasswordHash string              `json:"passwordHash"`
	Phone        string              `json:"phone,omitempty"`
	Avatar       string              `json:"avatar,omitempty"`
	APIKey       string              `json:"apiKey,omitempty"`
	Settings     *models.AppSettings `json:"settings,omitempty"`
}

func (b *profileBlob) toUser(email string, rowID int64) *models.User {
	return &models.User{
		ID:            email,
		Name:          b.Name,
		Email:         email,
		Phone:         b.Phone,
		Avatar:        b.Avatar,
		APIKey:        b.APIKey,
		Provider:      models.ProviderCloud,
		RowID:         rowID,
		SavedSettings: b.Settings,
	}
}

// findProfileRow looks a profile row up by email. The server-side search is
// a substring prefilter, so the Name match is re-checked exactly here.
// Returns (nil, nil) when no row matches.
func (c *Client) findProfileRow(ctx context.Context, email string) (*row, *profileBlob, error) {
	rows, err := c.listRows(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	for i := range rows {
		if rows[i].Name != email {
			continue
		}
		var blob profileBlob
		if err := decodeBlob(rows[i].Notes, &blob); err != nil {
			continue
		}
		if blob.Type != blobTypeProfile {
			continue
		}
		return &rows[i], &blob, nil
	}
	return nil, nil, nil
}

// FindUserByEmail returns the profile for email, or nil if no account
// exists. Token and table misconfiguration is propagated; transient network
// failures degrade to nil so callers can fall back to local state.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r, blob, err := c.findProfileRow(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrTokenRejected) ||
			errors.Is(err, common.ErrTableNotFound) ||
			errors.Is(err, common.ErrConfigMissing) {
			return nil, err
		}
		c.logger.Warn(ctx, "user lookup failed, treating as absent", "error", err)
		return nil, nil
	}
	if r == nil {
		return nil, nil
	}
	return blob.toUser(email, r.ID), nil
}

// RegisterUser creates a new profile row. The account is keyed by email;
// an existing row with the same email fails with ErrDuplicateAccount.
func (c *Client) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	existing, _, err := c.findProfileRow(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	blob := profileBlob{
		Type:         blobTypeProfile,
		Name:         name,
		PasswordHash: string(hash),
	}
	rowID, err := c.createRow(ctx, email, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile row: %w", err)
	}

	c.logger.Info(ctx, "account registered", "email", email)
	return blob.toUser(email, rowID), nil
}

// LoginUser authenticates against the stored profile. A missing account and
// a wrong password surface as distinct errors so the CLI can prompt
// accordingly.
func (c *Client) LoginUser(ctx context.Context, email, password string) (*models.User, error) {
	r, blob, err := c.findProfileRow(ctx, email)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, common.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(blob.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	return blob.toUser(email, r.ID), nil
}

// UpdateUserProfile pushes the current profile fields and settings snapshot
// to the remote row. The stored password hash always survives the rewrite.
func (c *Client) UpdateUserProfile(ctx context.Context, user *models.User, settings *models.AppSettings) error {
	if user.RowID == 0 {
		return common.ErrNoRemoteRecord
	}
	r, err := c.getRow(ctx, user.RowID)
	if err != nil {
		return err
	}

	var blob profileBlob
	if err := decodeBlob(r.Notes, &blob); err != nil {
		return fmt.Errorf("failed to decode profile blob: %w", err)
	}

	blob.Type = blobTypeProfile
	blob.Name = user.Name
	blob.Phone = user.Phone
	blob.Avatar = user.Avatar
	blob.APIKey = user.APIKey
	if settings != nil {
		blob.Settings = settings
	}
	return c.updateNotes(ctx, user.RowID, blob)
}
