package main

import (
	"gopkg.in/urfave/cli.v1"
)

const (
	logLevelFlag  = "log.level"
	logFormatFlag = "log.format"
	nodeFlag      = "node"
	timeoutFlag   = "timeout"
	caFlag        = "tls.ca"

	listenFlag  = "listen"
	genesisFlag = "genesis"
	tlsFlag     = "tls"
	certOutFlag = "tls.cert"
	corsFlag    = "cors"
	nodeIDFlag  = "id"

	fromFlag    = "from"
	messageFlag = "message"
	dataFlag    = "data"
)

// GlobalFlags returns the flags shared by every command.
func GlobalFlags() []cli.Flag {
	d := defaultConfig()
	return []cli.Flag{
		cli.StringFlag{
			Name:  logLevelFlag,
			Usage: "Logging level (trace|debug|info|warn|error)",
			Value: d.Log.Level,
		},
		cli.StringFlag{
			Name:  logFormatFlag,
			Usage: "Log output format (text|json)",
			Value: d.Log.Format,
		},
		cli.StringFlag{
			Name:   nodeFlag,
			Usage:  "Base URL of the node the client commands talk to",
			Value:  d.Node,
			EnvVar: "BLOCKLEDGER_NODE",
		},
		cli.DurationFlag{
			Name:  timeoutFlag,
			Usage: "Timeout of every request to and from the node",
			Value: d.Timeout,
		},
		cli.StringFlag{
			Name:  caFlag,
			Usage: "PEM certificate to trust when the node serves TLS",
		},
	}
}

// ServeFlags returns the flags of the serve command.
func ServeFlags() []cli.Flag {
	d := defaultConfig()
	return []cli.Flag{
		cli.StringFlag{
			Name:  listenFlag,
			Usage: "Listening address, host[:port]",
			Value: d.Serve.Listen,
		},
		cli.StringFlag{
			Name:  genesisFlag,
			Usage: "Message stored in the genesis block",
			Value: d.Serve.Genesis,
		},
		cli.BoolFlag{
			Name:  tlsFlag,
			Usage: "Serve over TLS with a self-signed certificate",
		},
		cli.StringFlag{
			Name:  certOutFlag,
			Usage: "Where to write the self-signed certificate for clients",
			Value: d.Serve.CertOut,
		},
		cli.BoolFlag{
			Name:  corsFlag,
			Usage: "Allow cross origin requests",
		},
		cli.StringFlag{
			Name:  nodeIDFlag,
			Usage: "Node identifier reported by /status (random if empty)",
		},
	}
}

func blocksFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  fromFlag,
			Usage: "Index of the first block to list",
		},
	}
}

func appendFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  messageFlag,
			Usage: "Message stored as {\"message\": ...}",
		},
		cli.StringFlag{
			Name:  dataFlag,
			Usage: "Raw JSON object stored as the block payload",
		},
	}
}
