package memory_test

import (
	"testing"

	"github.com/uxforge/maestro/pkg/adapters/memory"
	"github.com/uxforge/maestro/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}
