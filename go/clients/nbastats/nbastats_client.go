package nbastats

import (
	"github.com/fastbreakhq/fastbreak/go/clients"
)

type NBAStatsClient struct {
	*clients.BaseClient
}

func NewNBAStatsClient(apiKey string) *NBAStatsClient {
	client := &NBAStatsClient{
		BaseClient: clients.NewBaseClient(BaseURL),
	}

	if apiKey != "" {
		client.SetHeader(AuthorizationHeader, "Bearer "+apiKey)
	}

	return client
}
