package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTP.Port != defaultHTTPPort {
		t.Errorf("expected port %d, got %d", defaultHTTPPort, cfg.HTTP.Port)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected memory backend, got %s", cfg.Store.Backend)
	}
	if cfg.Ticks.DeliveryInterval != 10*time.Second {
		t.Errorf("expected 10s delivery interval, got %s", cfg.Ticks.DeliveryInterval)
	}
	if cfg.Ticks.RefundInterval != 4*time.Second {
		t.Errorf("expected 4s refund interval, got %s", cfg.Ticks.RefundInterval)
	}
	if cfg.Kafka.Topic != defaultKafkaTopic {
		t.Errorf("expected topic %s, got %s", defaultKafkaTopic, cfg.Kafka.Topic)
	}
	if cfg.Service.Name != defaultServiceName {
		t.Errorf("expected service name %s, got %s", defaultServiceName, cfg.Service.Name)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_HTTP_PORT", "9090")
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_PATH", "/tmp/records.json")
	t.Setenv("DELIVERY_TICK_INTERVAL", "250ms")
	t.Setenv("REFUND_TICK_INTERVAL", "100ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Store.Backend != "file" || cfg.Store.Path != "/tmp/records.json" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Ticks.DeliveryInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms delivery interval, got %s", cfg.Ticks.DeliveryInterval)
	}
	if cfg.Ticks.RefundInterval != 100*time.Millisecond {
		t.Errorf("expected 100ms refund interval, got %s", cfg.Ticks.RefundInterval)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("API_HTTP_PORT", "not-a-port")
		if _, err := Load(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("bad store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "cassandra")
		if _, err := Load(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("bad tick interval", func(t *testing.T) {
		t.Setenv("REFUND_TICK_INTERVAL", "four seconds")
		if _, err := Load(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("non-positive tick interval", func(t *testing.T) {
		t.Setenv("DELIVERY_TICK_INTERVAL", "0s")
		if _, err := Load(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
