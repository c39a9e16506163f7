package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/repository"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// Neo4JRegistryRepository implements AddressRegistry against a curated
// label graph. Addresses are stored lowercase.
type Neo4JRegistryRepository struct {
	client *Neo4JClient
	logger *logger.Logger
}

// NewNeo4JRegistryRepository creates a new Neo4J registry repository
func NewNeo4JRegistryRepository(client *Neo4JClient, logger *logger.Logger) repository.AddressRegistry {
	return &Neo4JRegistryRepository{
		client: client,
		logger: logger.WithComponent("neo4j-registry-repo"),
	}
}

// LookupAddress resolves a known exchange, DEX or marketplace address
func (r *Neo4JRegistryRepository) LookupAddress(ctx context.Context, address string) (*entity.AddressLabel, error) {
	session := r.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	query := `
		MATCH (a:KnownAddress {address: $address})
		RETURN a.name, a.type
	`

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]interface{}{
			"address": strings.ToLower(address),
		})
		if err != nil {
			return nil, err
		}
		if !records.Next(ctx) {
			return nil, nil
		}
		values := records.Record().Values
		return &entity.AddressLabel{
			Name: asString(values[0]),
			Type: entity.AddressType(asString(values[1])),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up address: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*entity.AddressLabel), nil
}

// LookupToken resolves a known ERC20 contract to its metadata
func (r *Neo4JRegistryRepository) LookupToken(ctx context.Context, contractAddress string) (*entity.TokenInfo, error) {
	session := r.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	query := `
		MATCH (t:KnownToken {address: $address})
		RETURN t.symbol, t.name, t.decimals
	`

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]interface{}{
			"address": strings.ToLower(contractAddress),
		})
		if err != nil {
			return nil, err
		}
		if !records.Next(ctx) {
			return nil, nil
		}
		values := records.Record().Values
		return &entity.TokenInfo{
			Symbol:   asString(values[0]),
			Name:     asString(values[1]),
			Decimals: uint8(asInt64(values[2])),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*entity.TokenInfo), nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	n, _ := v.(int64)
	return n
}
