package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"

	"github.com/alsania/alscvm/alscvm"
)

// Client defines alscvm client operations.
type Client interface {
	// BalanceOf fetches the balance of an account
	BalanceOf(ctx context.Context, addr ids.ShortID) (uint64, error)

	// TotalSupply fetches the ledger's total supply
	TotalSupply(ctx context.Context) (uint64, error)

	// Transfer applies an unsigned transfer and returns its event index
	Transfer(ctx context.Context, from, to ids.ShortID, amount uint64) (uint64, error)

	// IssueTx submits a signed tx
	IssueTx(ctx context.Context, txBytes []byte) (ids.ID, error)

	// GetTxStatus fetches the status of a tx and, if rejected, why
	GetTxStatus(ctx context.Context, txID ids.ID) (string, string, error)

	// GetEvents fetches up to limit events starting at start, and the
	// total number of events
	GetEvents(ctx context.Context, start, limit uint64) ([]alscvm.APIEvent, uint64, error)
}

// New creates a new client object. [uri] is the VM's endpoint, for example
// http://127.0.0.1:9650/ext/bc/alsc.
func New(uri string) Client {
	return &client{
		uri:  uri,
		http: http.DefaultClient,
	}
}

type client struct {
	uri  string
	http *http.Client
}

func (cli *client) BalanceOf(ctx context.Context, addr ids.ShortID) (uint64, error) {
	resp := new(alscvm.BalanceReply)
	err := cli.sendRequest(ctx,
		"balanceOf",
		&alscvm.AddressArgs{Address: addr},
		resp,
	)
	return uint64(resp.Balance), err
}

func (cli *client) TotalSupply(ctx context.Context) (uint64, error) {
	resp := new(alscvm.TotalSupplyReply)
	err := cli.sendRequest(ctx, "totalSupply", &alscvm.EmptyArgs{}, resp)
	return uint64(resp.TotalSupply), err
}

func (cli *client) Transfer(ctx context.Context, from, to ids.ShortID, amount uint64) (uint64, error) {
	resp := new(alscvm.TransferReply)
	err := cli.sendRequest(ctx,
		"transfer",
		&alscvm.TransferArgs{
			From:   from,
			To:     to,
			Amount: json.Uint64(amount),
		},
		resp,
	)
	return uint64(resp.Index), err
}

func (cli *client) IssueTx(ctx context.Context, txBytes []byte) (ids.ID, error) {
	txStr, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
	if err != nil {
		return ids.Empty, err
	}

	resp := new(alscvm.IssueTxReply)
	err = cli.sendRequest(ctx, "issueTx", &alscvm.IssueTxArgs{Tx: txStr}, resp)
	return resp.TxID, err
}

func (cli *client) GetTxStatus(ctx context.Context, txID ids.ID) (string, string, error) {
	resp := new(alscvm.GetTxStatusReply)
	err := cli.sendRequest(ctx, "getTxStatus", &alscvm.GetTxStatusArgs{TxID: txID}, resp)
	return resp.Status, resp.Reason, err
}

func (cli *client) GetEvents(ctx context.Context, start, limit uint64) ([]alscvm.APIEvent, uint64, error) {
	resp := new(alscvm.GetEventsReply)
	err := cli.sendRequest(ctx,
		"getEvents",
		&alscvm.GetEventsArgs{
			Start: json.Uint64(start),
			Limit: json.Uint64(limit),
		},
		resp,
	)
	return resp.Events, uint64(resp.NumEvents), err
}

func (cli *client) sendRequest(ctx context.Context, method string, args interface{}, reply interface{}) error {
	body, err := json2.EncodeClientRequest(alscvm.ServiceName+"."+method, args)
	if err != nil {
		return fmt.Errorf("failed to encode client params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cli.uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cli.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to issue request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received status code: %d", resp.StatusCode)
	}
	return json2.DecodeClientResponse(resp.Body, reply)
}
