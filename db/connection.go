// Package db reads liturgy tables from the PostgreSQL warehouse.
//
// A DB is short-lived: the dataset loader opens one, selects the table and
// closes it again. When the warehouse sits behind a bastion the pool dials
// the local end of an SSH port forward instead of the real host.
package db

import (
	"context"
	"fmt"

	"github.com/DachengChen/liturgiAI/applog"
	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/ssh"
	"github.com/jackc/pgx/v5/pgxpool"
)

// A single load never runs queries in parallel.
const maxWarehouseConns = 2

// DB is an open warehouse handle.
type DB struct {
	Pool   *pgxpool.Pool
	Tunnel *ssh.Tunnel
}

// Connect opens a pool against cfg and checks that the server answers.
func Connect(ctx context.Context, cfg config.WarehouseConfig) (*DB, error) {
	d := &DB{}

	target := cfg
	if cfg.SSH.Enabled {
		local, err := d.forward(ctx, cfg)
		if err != nil {
			return nil, err
		}
		target.Host, target.Port = local.Host, local.Port
	}

	poolCfg, err := pgxpool.ParseConfig(target.DSN())
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("warehouse dsn: %w", err)
	}
	poolCfg.MaxConns = maxWarehouseConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("warehouse pool: %w", err)
	}
	d.Pool = pool

	if err := d.reachable(ctx); err != nil {
		d.Close()
		return nil, err
	}

	applog.Event("warehouse", "connected to %s/%s (via ssh: %t)", cfg.Host, cfg.Database, cfg.SSH.Enabled)
	return d, nil
}

// forward starts the SSH port forward to the warehouse host and returns
// the local address to dial.
func (d *DB) forward(ctx context.Context, cfg config.WarehouseConfig) (*ssh.Addr, error) {
	tunnel, err := ssh.NewTunnel(cfg.SSH, cfg.Host, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("ssh tunnel: %w", err)
	}
	local, err := tunnel.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("ssh tunnel to %s: %w", cfg.SSH.Host, err)
	}
	d.Tunnel = tunnel
	return local, nil
}

func (d *DB) reachable(ctx context.Context) error {
	if err := d.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("warehouse unreachable: %w", err)
	}
	return nil
}

// Close releases the pool, then the tunnel it dials through.
func (d *DB) Close() {
	if d.Pool != nil {
		d.Pool.Close()
		d.Pool = nil
	}
	if d.Tunnel != nil {
		d.Tunnel.Stop()
		d.Tunnel = nil
	}
}
