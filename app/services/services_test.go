package services

import (
	"testing"

	"zettaboard/app/apiclient"
	"zettaboard/app/apiclient/fake"
	"zettaboard/app/paging"

	"go.uber.org/zap"
)

var (
	postTotals = paging.Totals{IfAbsent: 100}
	userTotals = paging.Totals{IfAbsent: 10, IfZero: 200}
)

func newTestAPI(t *testing.T) (*fake.API, *apiclient.Client) {
	t.Helper()
	api := fake.New()
	srv := api.Start(t)
	return api, apiclient.New(srv.URL)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
