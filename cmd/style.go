package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/peers"
	"github.com/luca-patrignani/blockledger/wire"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func renderBanner(w io.Writer) error {
	return pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Block", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Ledger", pterm.FgDarkGray.ToStyle()),
	).WithWriter(w).Render()
}

func renderBlocks(w io.Writer, blocks []ledger.Block) error {
	if len(blocks) == 0 {
		pterm.Info.WithWriter(w).Println("No blocks in range")
		return nil
	}
	data := pterm.TableData{{"Index", "Timestamp", "Previous hash", "Hash", "Data"}}
	for _, b := range blocks {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			formatTimestamp(b.Timestamp),
			shortHash(b.PreviousHash),
			shortHash(b.Hash()),
			formatPayload(b.Data),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).WithWriter(w).Render()
}

func renderBlock(w io.Writer, b ledger.Block) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	title := pterm.LightCyan(fmt.Sprintf("|BLOCK %d|", b.Index))
	fmt.Fprintln(w, pbox.WithTitle(title).WithTitleTopCenter().Sprintf(
		"Hash: %s\nPrevious hash: %s\nTimestamp: %s\nData: %s",
		b.Hash(), orNone(b.PreviousHash), formatTimestamp(b.Timestamp), formatPayload(b.Data),
	))
}

func renderStatus(w io.Writer, s wire.Status) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	fmt.Fprintln(w, pbox.WithTitle(pterm.LightGreen("|NODE|")).WithTitleTopLeft().Sprintf(
		"Node: %s\nBlocks: %d\nLast index: %d\nLast hash: %s\nPeers: %d",
		s.NodeID, s.Length, s.LastIndex, s.LastHash, s.Peers,
	))
}

func renderPeers(w io.Writer, entries []peers.Entry) error {
	if len(entries) == 0 {
		pterm.Info.WithWriter(w).Println("No peers registered")
		return nil
	}
	data := pterm.TableData{{"#", "Peer"}}
	for i, e := range entries {
		data = append(data, []string{strconv.Itoa(i + 1), e.Peer})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

func formatTimestamp(ms uint64) string {
	return fmt.Sprintf("%d (%s)", ms, time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339Nano))
}

func formatPayload(p ledger.Payload) string {
	raw, err := json.Marshal(p)
	if err != nil {
		return "<unencodable>"
	}
	return string(raw)
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16] + "…"
	}
	return orNone(h)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
