package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out identifiers for search responses so a client can
// quote one back when reporting a result.
type Generator interface {
	NextSearchID() string
}

// SnowflakeGenerator issues base58 snowflake IDs. snowflake.Node is safe for
// concurrent use.
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator initializes a generator for one server instance.
// nodeID must be unique per instance (0-1023).
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &SnowflakeGenerator{node: node}, nil
}

func (g *SnowflakeGenerator) NextSearchID() string {
	return "srch_" + g.node.Generate().Base58()
}
