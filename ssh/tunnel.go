// Package ssh implements SSH local port forwarding for reaching a
// liturgy warehouse that is only exposed on a private network.
//
// The tunnel listens on a random loopback port and forwards every
// accepted connection to the warehouse address through one SSH client.
// Host keys are checked against ~/.ssh/known_hosts when that file exists.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/DachengChen/liturgiAI/applog"
	"github.com/DachengChen/liturgiAI/config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Addr represents host:port of the local tunnel endpoint.
type Addr struct {
	Host string
	Port int
}

// Tunnel manages an SSH local port forward to the warehouse.
type Tunnel struct {
	clientConfig *ssh.ClientConfig
	bastionAddr  string
	targetAddr   string

	client   *ssh.Client
	listener net.Listener
	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

// NewTunnel prepares a tunnel from the bastion settings in cfg to
// targetHost:targetPort. Nothing is dialed until Start.
func NewTunnel(cfg config.SSHConfig, targetHost string, targetPort int) (*Tunnel, error) {
	auth, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}
	hostKeys, err := hostKeyCallback()
	if err != nil {
		return nil, err
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}

	return &Tunnel{
		clientConfig: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            auth,
			HostKeyCallback: hostKeys,
		},
		bastionAddr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		targetAddr:  net.JoinHostPort(targetHost, strconv.Itoa(targetPort)),
		done:        make(chan struct{}),
	}, nil
}

// Start dials the bastion and begins forwarding. The returned address
// is what the warehouse pool should connect to instead of the real host.
func (t *Tunnel) Start(ctx context.Context) (*Addr, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.bastionAddr)
	if err != nil {
		return nil, fmt.Errorf("dial bastion %s: %w", t.bastionAddr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, t.bastionAddr, t.clientConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", t.bastionAddr, err)
	}
	t.client = ssh.NewClient(c, chans, reqs)

	t.listener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.client.Close()
		return nil, fmt.Errorf("local listen: %w", err)
	}

	local := &Addr{Host: "127.0.0.1", Port: t.listener.Addr().(*net.TCPAddr).Port}
	applog.Event("ssh", "tunnel %s:%d -> %s via %s", local.Host, local.Port, t.targetAddr, t.bastionAddr)

	t.wg.Add(1)
	go t.acceptLoop()

	return local, nil
}

// Stop closes the listener, waits for in-flight forwards, and closes
// the SSH client. Safe to call more than once.
func (t *Tunnel) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		if t.listener != nil {
			t.listener.Close()
		}
		t.wg.Wait()
		if t.client != nil {
			t.client.Close()
		}
	})
}

func (t *Tunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		local, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		t.wg.Add(1)
		go t.pipe(local)
	}
}

func (t *Tunnel) pipe(local net.Conn) {
	defer t.wg.Done()
	defer local.Close()

	remote, err := t.client.Dial("tcp", t.targetAddr)
	if err != nil {
		applog.Error("ssh forward to %s: %v", t.targetAddr, err)
		return
	}
	defer remote.Close()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(local, remote)
		done <- struct{}{}
	}()
	<-done
}

func authMethods(cfg config.SSHConfig) ([]ssh.AuthMethod, error) {
	if cfg.KeyPath == "" {
		return nil, fmt.Errorf("no SSH key configured (set source.warehouse.ssh.key_path)")
	}
	keyBytes, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key %s: %w", cfg.KeyPath, err)
	}

	var signer ssh.Signer
	if cfg.KeyPassphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(cfg.KeyPassphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(keyBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

// hostKeyCallback verifies against ~/.ssh/known_hosts; without that file
// any host key is accepted and a warning is logged.
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".ssh", "known_hosts")
		if _, statErr := os.Stat(path); statErr == nil {
			cb, err := knownhosts.New(path)
			if err != nil {
				return nil, fmt.Errorf("load known_hosts: %w", err)
			}
			return cb, nil
		}
	}
	applog.Warn("ssh: no known_hosts file, host key not verified")
	return ssh.InsecureIgnoreHostKey(), nil
}
