// Package user はユーザーレコードのインメモリストアを提供します。
package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidInput は username または passwordHash が空のまま作成しようとした場合のエラーです。
	ErrInvalidInput = errors.New("username and password hash are required")
	// ErrUsernameTaken は同じ username のレコードが既に存在する場合のエラーです。
	ErrUsernameTaken = errors.New("username already taken")
)

// Record はユーザーレコードを表します。
// 値型フィールドのみで構成されるため、代入がそのままコピーになります。
type Record struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
}

// Criteria は FindOne の検索条件を表します。
// ID と Username の両方が指定された場合は ID が優先されます。
type Criteria struct {
	ID       string
	Username string
}

// Store はユーザーレコードをプロセス内メモリに保持します。
// レコードの出し入れは常にコピーで行い、内部状態への参照は外に出しません。
type Store struct {
	mu      sync.Mutex
	entries int
	users   map[string]Record
}

// NewStore は空の Store を作成します。
func NewStore() *Store {
	return &Store{
		users: make(map[string]Record),
	}
}

// Create はレコードを検証して保存し、保存されたレコードのコピーを返します。
// ID は作成総数から "uid1", "uid2", ... と採番され、再利用されません。
// 同じ username のレコードが既に存在する場合は ErrUsernameTaken を返します。
// 重複チェック・採番・挿入は同一ロック内で行うため、並行な Create が
// 同じ username で両方成功することはありません。
func (s *Store) Create(ctx context.Context, record Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	if record.Username == "" || record.PasswordHash == "" {
		return Record{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.users {
		if entry.Username == record.Username {
			return Record{}, ErrUsernameTaken
		}
	}

	s.entries++
	record.ID = fmt.Sprintf("uid%d", s.entries)
	s.users[record.ID] = record

	return record, nil
}

// FindOne は条件に一致するレコードのコピーを返します。
// ID 指定が username 指定より優先されます。
// 見つからない場合は (nil, nil) を返し、エラーにはしません。
func (s *Store) FindOne(ctx context.Context, criteria Criteria) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if criteria.ID != "" {
		if entry, ok := s.users[criteria.ID]; ok {
			return &entry, nil
		}
	}

	if criteria.Username != "" {
		for _, entry := range s.users {
			if entry.Username == criteria.Username {
				found := entry
				return &found, nil
			}
		}
	}

	return nil, nil
}
