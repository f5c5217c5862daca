package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/luca-patrignani/blockledger/client"
	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/network"
	"github.com/luca-patrignani/blockledger/peers"
	"github.com/luca-patrignani/blockledger/wire"
	"gopkg.in/urfave/cli.v1"
)

const (
	serveCommand    = "serve"
	shutdownTimeout = 5 * time.Second
)

// newApp builds the blockledger command line. clk stamps the blocks created
// by the append command.
func newApp(clk clock.Clock, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "blockledger"
	app.Usage = "Hash-linked block ledger node and client"
	app.Version = "0.1.0"
	app.Writer = out
	app.Flags = GlobalFlags()
	app.Commands = []cli.Command{
		{
			Name:   serveCommand,
			Usage:  "Run a node",
			Flags:  ServeFlags(),
			Action: serveAction,
		},
		{
			Name:   "blocks",
			Usage:  "List the blocks of the chain",
			Flags:  blocksFlags(),
			Action: blocksAction,
		},
		{
			Name:   "last",
			Usage:  "Show the tail block",
			Action: lastAction,
		},
		{
			Name:   "status",
			Usage:  "Show the node summary",
			Action: statusAction,
		},
		{
			Name:   "append",
			Usage:  "Append a block after the current tail",
			Flags:  appendFlags(),
			Action: appendAction(clk),
		},
		{
			Name:  "peers",
			Usage: "Inspect and register peers",
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Usage:  "List the registered peers",
					Action: peersListAction,
				},
				{
					Name:      "add",
					Usage:     "Register a peer",
					ArgsUsage: "URL",
					Action:    peersAddAction,
				},
			},
		},
	}
	return app
}

func setup(c *cli.Context) (Config, *slog.Logger, error) {
	cfg := makeConfig(c)
	logger, err := newLogger(cfg.Log, c.App.Writer)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, logger, nil
}

func serveAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := renderBanner(c.App.Writer); err != nil {
		return err
	}
	return runServe(ctx, cfg, logger)
}

// runServe serves a fresh chain until ctx is done.
func runServe(ctx context.Context, cfg Config, logger *slog.Logger) error {
	addr, err := listenAddress(cfg.Serve.Listen)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", cfg.Serve.Listen, err)
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	opts := []network.ServerOption{
		network.WithLogger(logger),
		network.WithTimeout(cfg.Timeout),
		network.WithCORS(cfg.Serve.CORS),
	}
	if cfg.Serve.NodeID != "" {
		opts = append(opts, network.WithNodeID(cfg.Serve.NodeID))
	}
	if cfg.Serve.TLS {
		cert, pemBytes, err := network.GenerateSelfSignedCert(l.Addr().String())
		if err != nil {
			l.Close()
			return fmt.Errorf("generating certificate: %w", err)
		}
		if cfg.Serve.CertOut != "" {
			if err := os.WriteFile(cfg.Serve.CertOut, pemBytes, 0o644); err != nil {
				l.Close()
				return err
			}
			logger.Info("certificate written", "path", cfg.Serve.CertOut)
		}
		opts = append(opts, network.WithCertificate(cert))
	}

	chain := ledger.NewBlockchain(cfg.Serve.Genesis)
	server := network.NewServer(chain, peers.NewRegistry(), opts...)
	logger.Info("node ready", "url", advertisedURL(l, cfg.Serve.TLS), "node", server.NodeID())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newClient(cfg Config) (*client.Client, error) {
	var opts []client.Option
	if cfg.CAFile != "" {
		pemBytes, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pemBytes) {
			return nil, fmt.Errorf("no certificate found in %s", cfg.CAFile)
		}
		opts = append(opts, client.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool}},
		}))
	}
	opts = append(opts, client.WithTimeout(cfg.Timeout))
	return client.New(cfg.Node, opts...), nil
}

func clientFor(c *cli.Context) (*client.Client, *slog.Logger, error) {
	cfg, logger, err := setup(c)
	if err != nil {
		return nil, nil, err
	}
	cl, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("using node", "url", cfg.Node)
	return cl, logger, nil
}

func blocksAction(c *cli.Context) error {
	cl, _, err := clientFor(c)
	if err != nil {
		return err
	}
	blocks, err := cl.GetBlocks(context.Background(), c.Int(fromFlag))
	if err != nil {
		return err
	}
	return renderBlocks(c.App.Writer, blocks)
}

func lastAction(c *cli.Context) error {
	cl, _, err := clientFor(c)
	if err != nil {
		return err
	}
	tail, err := cl.GetLastBlock(context.Background())
	if err != nil {
		return err
	}
	renderBlock(c.App.Writer, tail)
	return nil
}

func statusAction(c *cli.Context) error {
	cl, _, err := clientFor(c)
	if err != nil {
		return err
	}
	status, err := cl.Status(context.Background())
	if err != nil {
		return err
	}
	renderStatus(c.App.Writer, status)
	return nil
}

func appendAction(clk clock.Clock) func(c *cli.Context) error {
	return func(c *cli.Context) error {
		data, err := payloadFromFlags(c.String(messageFlag), c.String(dataFlag))
		if err != nil {
			return err
		}
		cl, logger, err := clientFor(c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		tail, err := cl.GetLastBlock(ctx)
		if err != nil {
			return err
		}
		// The node rejects blocks older than its tail, whatever our clock says.
		timestamp := ledger.Millis(clk.Now())
		if timestamp < tail.Timestamp {
			timestamp = tail.Timestamp
		}

		stored, err := cl.SendBlock(ctx, tail.Next(timestamp, data))
		if err != nil {
			return describeRejection(err)
		}
		logger.Info("block appended", "index", stored.Index)
		renderBlock(c.App.Writer, stored)
		return nil
	}
}

func payloadFromFlags(message, data string) (ledger.Payload, error) {
	switch {
	case message != "" && data != "":
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", messageFlag, dataFlag)
	case data != "":
		var p ledger.Payload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("--%s is not a JSON object: %w", dataFlag, err)
		}
		return p, nil
	case message != "":
		return ledger.MessagePayload(message), nil
	default:
		return nil, fmt.Errorf("one of --%s or --%s is required", messageFlag, dataFlag)
	}
}

// describeRejection spells out ledger rejections with their wire label and
// reason, leaving other errors untouched.
func describeRejection(err error) error {
	pair := wire.FromBlockError(err)
	if pair == wire.Unknown {
		return err
	}
	return fmt.Errorf("block rejected: %s: %s", pair.Label, pair.Reason)
}

func peersListAction(c *cli.Context) error {
	cl, _, err := clientFor(c)
	if err != nil {
		return err
	}
	entries, err := cl.ListPeers(context.Background())
	if err != nil {
		return err
	}
	return renderPeers(c.App.Writer, entries)
}

func peersAddAction(c *cli.Context) error {
	peer := c.Args().First()
	if peer == "" {
		return fmt.Errorf("missing peer URL")
	}
	cl, logger, err := clientFor(c)
	if err != nil {
		return err
	}
	if err := cl.AddPeer(context.Background(), peers.Entry{Peer: peer}); err != nil {
		if pair := wire.FromEntryError(err); pair != wire.Unknown {
			return fmt.Errorf("peer rejected: %s: %s", pair.Label, pair.Reason)
		}
		return err
	}
	logger.Info("peer registered", "peer", peer)
	return nil
}
