package memory

import (
	"testing"

	"github.com/tallyup-dev/tallyup/internal/store"
	"github.com/tallyup-dev/tallyup/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
