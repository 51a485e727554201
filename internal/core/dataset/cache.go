package dataset

import (
	"os"
	"sync"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

// Identity identifica a versão de um arquivo em disco.
type Identity struct {
	Path    string
	ModTime int64
	Size    int64
}

// Identify lê a identidade atual do arquivo.
func Identify(path string) (Identity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Path: path, ModTime: info.ModTime().UnixNano(), Size: info.Size()}, nil
}

// Key é a chave de uma ingestão: a base e, quando existir, a classificação.
type Key struct {
	Base           Identity
	Classification Identity
}

type cacheEntry struct {
	key     Key
	dataset *domain.Dataset
}

// Cache guarda o resultado da ingestão por arquivo base. Uma entrada só é devolvida
// enquanto a identidade dos arquivos não mudar; Invalidate e Reset descartam entradas.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get devolve o dataset guardado para a chave, se ainda válido.
func (c *Cache) Get(key Key) (*domain.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key.Base.Path]
	if !ok || entry.key != key {
		return nil, false
	}
	return entry.dataset, true
}

func (c *Cache) Put(key Key, ds *domain.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.Base.Path] = cacheEntry{key: key, dataset: ds}
}

// Invalidate descarta a entrada do arquivo base informado.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Reset descarta todas as entradas.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *Cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
