package sessions

import (
	"encoding/json"
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
	"github.com/pkg/errors"
)

// Persisted key layout.
const (
	KeyVersion        = "sessionVersion"
	KeyAuthToken      = "authToken"
	KeyUsername       = "username"
	KeyUserID         = "userId"
	KeyPersonID       = "personId"
	KeyRolesByParking = "rolesByParking"
	KeyParkingID      = "parkingId"
)

var (
	ErrNoSession          = apperrors.ErrNoSession
	ErrUnsupportedVersion = apperrors.ErrUnsupportedVersion
)

var allKeys = []string{KeyVersion, KeyAuthToken, KeyUsername, KeyUserID, KeyPersonID, KeyRolesByParking, KeyParkingID}

// KVStore maps an AuthSession onto independent string keys.
// Writes are last-write-wins per key; Load tolerates keys that are missing.
type KVStore struct {
	kv KeyValue
}

var _ Store = (*KVStore)(nil)

func NewKVStore(kv KeyValue) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Load() (AuthSession, error) {
	token, ok, err := s.kv.Get(KeyAuthToken)
	if err != nil {
		return AuthSession{}, errors.Wrap(err, "[KVStore.Load] authToken")
	}
	if !ok || token == "" {
		return AuthSession{}, ErrNoSession
	}

	session := AuthSession{Version: CurrentVersion, Token: token}

	if raw, ok, err := s.kv.Get(KeyVersion); err != nil {
		return AuthSession{}, errors.Wrap(err, "[KVStore.Load] sessionVersion")
	} else if ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return AuthSession{}, errors.Wrap(err, "[KVStore.Load] sessionVersion")
		}
		if v > CurrentVersion {
			return AuthSession{}, errors.Wrapf(ErrUnsupportedVersion, "[KVStore.Load] version %d", v)
		}
		session.Version = v
	}

	if session.Username, _, err = s.kv.Get(KeyUsername); err != nil {
		return AuthSession{}, errors.Wrap(err, "[KVStore.Load] username")
	}
	if err := s.getJSON(KeyUserID, &session.UserID); err != nil {
		return AuthSession{}, err
	}
	if err := s.getJSON(KeyPersonID, &session.PersonID); err != nil {
		return AuthSession{}, err
	}
	if err := s.getJSON(KeyRolesByParking, &session.RolesByParking); err != nil {
		return AuthSession{}, err
	}
	return session, nil
}

func (s *KVStore) Save(session AuthSession) error {
	if session.Token == "" {
		return errors.Wrap(apperrors.ErrMissingToken, "[KVStore.Save]")
	}
	roles := session.RolesByParking
	if roles == nil {
		roles = []RoleByParking{}
	}

	if err := s.ClearActiveParking(); err != nil {
		return errors.Wrap(err, "[KVStore.Save]")
	}
	if err := s.kv.Set(KeyVersion, strconv.Itoa(CurrentVersion)); err != nil {
		return errors.Wrap(err, "[KVStore.Save] sessionVersion")
	}
	if err := s.kv.Set(KeyAuthToken, session.Token); err != nil {
		return errors.Wrap(err, "[KVStore.Save] authToken")
	}
	if err := s.kv.Set(KeyUsername, session.Username); err != nil {
		return errors.Wrap(err, "[KVStore.Save] username")
	}
	if err := s.setJSON(KeyUserID, session.UserID); err != nil {
		return err
	}
	if err := s.setJSON(KeyPersonID, session.PersonID); err != nil {
		return err
	}
	return s.setJSON(KeyRolesByParking, roles)
}

func (s *KVStore) Clear() error {
	if err := s.kv.Remove(allKeys...); err != nil {
		return errors.Wrap(err, "[KVStore.Clear]")
	}
	return nil
}

func (s *KVStore) ActiveParking() (*int64, error) {
	raw, ok, err := s.kv.Get(KeyParkingID)
	if err != nil {
		return nil, errors.Wrap(err, "[KVStore.ActiveParking]")
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "[KVStore.ActiveParking] parse")
	}
	return &id, nil
}

func (s *KVStore) SetActiveParking(parkingID int64) error {
	if err := s.kv.Set(KeyParkingID, strconv.FormatInt(parkingID, 10)); err != nil {
		return errors.Wrap(err, "[KVStore.SetActiveParking]")
	}
	return nil
}

func (s *KVStore) ClearActiveParking() error {
	if err := s.kv.Remove(KeyParkingID); err != nil {
		return errors.Wrap(err, "[KVStore.ClearActiveParking]")
	}
	return nil
}

func (s *KVStore) getJSON(key string, out any) error {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return errors.Wrapf(err, "[KVStore.Load] %s", key)
	}
	if !ok || raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.Wrapf(err, "[KVStore.Load] decode %s", key)
	}
	return nil
}

func (s *KVStore) setJSON(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "[KVStore.Save] encode %s", key)
	}
	if err := s.kv.Set(key, string(b)); err != nil {
		return errors.Wrapf(err, "[KVStore.Save] %s", key)
	}
	return nil
}
