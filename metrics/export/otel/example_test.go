package otel_test

import (
	"bytes"
	"context"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	campusAuth "github.com/MrEthical07/campusAuth"
	campusotel "github.com/MrEthical07/campusAuth/metrics/export/otel"
	"github.com/MrEthical07/campusAuth/store/memstore"
)

// Example wires a live engine into an OpenTelemetry MeterProvider. A real
// deployment would pass a periodic reader with an OTLP exporter instead of
// the manual reader.
func Example() {
	ctx := context.Background()

	cfg := campusAuth.DefaultConfig()
	cfg.Token.Secret = bytes.Repeat([]byte("o"), 32)
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Security.EnableLoginThrottle = false
	cfg.Metrics.Enabled = true

	engine, err := campusAuth.New().
		WithConfig(cfg).
		WithCredentialStore(memstore.New()).
		Build()
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	exporter, err := campusotel.New(provider.Meter("campus-auth"), engine)
	if err != nil {
		panic(err)
	}
	defer func() { _ = exporter.Close() }()

	_, err = engine.RegisterPrivileged(ctx, campusAuth.RegisterRequest{
		Username: "registrar",
		Email:    "registrar@campus.edu",
		Password: "registrar-pass",
		Role:     campusAuth.RoleAdmin,
	})
	if err != nil {
		panic(err)
	}
	if _, err := engine.Login(ctx, "registrar", "registrar-pass"); err != nil {
		panic(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		panic(err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == "campus_auth_login_success_total" {
				fmt.Println(m.Name, sum.DataPoints[0].Value)
			}
		}
	}
	// Output: campus_auth_login_success_total 1
}
