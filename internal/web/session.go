package web

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/user/lifequest/internal/types"
	"go.uber.org/zap"
)

// SessionInfo holds information about a signed-in family member
type SessionInfo struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Admin       bool      `json:"admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// Actor returns the acting capability of the session
func (s SessionInfo) Actor() types.Actor {
	return types.Actor{CharacterID: s.CharacterID, Admin: s.Admin}
}

// SessionManager persists sessions as JSON files, one per session
type SessionManager struct {
	storeDir  string
	publicURL string
	logger    *zap.Logger
}

// NewSessionManager creates a new session manager
func NewSessionManager(storeDir, publicURL string, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		storeDir:  storeDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (sm *SessionManager) path(sessionID string) string {
	return filepath.Join(sm.storeDir, sessionID+".json")
}

// CreateSession records a new session for actor
func (sm *SessionManager) CreateSession(actor types.Actor) (SessionInfo, error) {
	session := SessionInfo{
		ID:          uuid.New().String(),
		CharacterID: actor.CharacterID,
		Admin:       actor.Admin,
		CreatedAt:   time.Now().UTC(),
	}
	if err := sm.SaveSession(session); err != nil {
		return SessionInfo{}, err
	}

	sm.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("character_id", session.CharacterID),
		zap.Bool("admin", session.Admin))
	return session, nil
}

// SaveSession persists session information
func (sm *SessionManager) SaveSession(session SessionInfo) error {
	// Create sessions directory
	if err := os.MkdirAll(sm.storeDir, 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	// Marshal session to JSON
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to file
	if err := os.WriteFile(sm.path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// GetSession loads one session. ok is false when no such session exists.
func (sm *SessionManager) GetSession(sessionID string) (SessionInfo, bool, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return SessionInfo{}, false, nil
	}

	data, err := os.ReadFile(sm.path(sessionID))
	if os.IsNotExist(err) {
		return SessionInfo{}, false, nil
	}
	if err != nil {
		return SessionInfo{}, false, fmt.Errorf("failed to read session file: %w", err)
	}

	var session SessionInfo
	if err := json.Unmarshal(data, &session); err != nil {
		return SessionInfo{}, false, fmt.Errorf("failed to parse session file: %w", err)
	}
	return session, true, nil
}

// ListSessions returns all stored sessions, oldest first
func (sm *SessionManager) ListSessions() ([]SessionInfo, error) {
	matches, err := filepath.Glob(filepath.Join(sm.storeDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(matches))
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			sm.logger.Warn("Failed to read session file", zap.String("path", match), zap.Error(err))
			continue
		}
		var session SessionInfo
		if err := json.Unmarshal(data, &session); err != nil {
			sm.logger.Warn("Failed to parse session file", zap.String("path", match), zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session. ok is false when it did not exist.
func (sm *SessionManager) DeleteSession(sessionID string) (bool, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return false, nil
	}
	err := os.Remove(sm.path(sessionID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete session file: %w", err)
	}

	sm.logger.Info("Session deleted", zap.String("session_id", sessionID))
	return true, nil
}

// PairingURL is the link a second device opens to join the session
func (sm *SessionManager) PairingURL(session SessionInfo) string {
	return fmt.Sprintf("%s/characters/%s?session=%s",
		sm.publicURL, url.PathEscape(session.CharacterID), url.QueryEscape(session.ID))
}

// QRCode renders the pairing URL of a session as a PNG
func (sm *SessionManager) QRCode(session SessionInfo) ([]byte, error) {
	png, err := qrcode.Encode(sm.PairingURL(session), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code image: %w", err)
	}
	return png, nil
}
