package interp

import (
	"fortio.org/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/compiler/parser"
)

// ParseCache remembers parsed programs by source text. Programs are never
// mutated after parsing, so one cache may be shared by many interpreters and
// goroutines.
type ParseCache struct {
	programs *lru.Cache[string, *ast.Program]
}

// NewParseCache returns a cache holding at most size programs.
func NewParseCache(size int) (*ParseCache, error) {
	c, err := lru.New[string, *ast.Program](size)
	if err != nil {
		return nil, err
	}
	return &ParseCache{programs: c}, nil
}

// Parse returns the cached program for src, parsing it on a miss. Failed
// parses are not cached.
func (c *ParseCache) Parse(src string) (*ast.Program, error) {
	if prog, ok := c.programs.Get(src); ok {
		log.LogVf("parse cache hit (%d bytes)", len(src))
		return prog, nil
	}
	prog, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	c.programs.Add(src, prog)
	return prog, nil
}

func (c *ParseCache) Len() int {
	return c.programs.Len()
}

func (c *ParseCache) Purge() {
	c.programs.Purge()
}
