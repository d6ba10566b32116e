package storefakes

import (
	"sync"

	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
	"github.com/dittohq/ditto-go/session"
)

var _ session.Store = (*FakeStore)(nil)

type FakeStore struct {
	pair *session.TokenPair
	lock sync.RWMutex

	SaveErr  error // returned from Save when set
	ClearErr error // returned from Clear when set
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Load() (*session.TokenPair, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.pair == nil {
		return nil, dittoerrors.ErrNoSession
	}
	copied := *fs.pair
	return &copied, nil
}

func (fs *FakeStore) Save(pair *session.TokenPair) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	copied := *pair
	fs.pair = &copied
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.pair = nil
	return nil
}
