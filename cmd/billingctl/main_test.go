package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOps struct {
	syncErr      error
	reconcileErr error

	gotSub, gotCust string
	gotNew          bool
}

func (f *fakeOps) SyncCatalog(context.Context) (int, int, error) {
	if f.syncErr != nil {
		return 0, 0, f.syncErr
	}
	return 2, 5, nil
}

func (f *fakeOps) Reconcile(_ context.Context, sub, cust string, isNew bool) error {
	f.gotSub, f.gotCust, f.gotNew = sub, cust, isNew
	return f.reconcileErr
}

func run(t *testing.T, ops *fakeOps, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(func(context.Context) (billingOps, error) { return ops, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCatalogCmd(t *testing.T) {
	out, err := run(t, &fakeOps{}, "sync-catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced 2 products and 5 prices")

	_, err = run(t, &fakeOps{syncErr: errors.New("stripe down")}, "sync-catalog")
	assert.EqualError(t, err, "stripe down")
}

func TestReconcileCmd(t *testing.T) {
	ops := &fakeOps{}
	out, err := run(t, ops, "reconcile", "--subscription", "sub_1", "--customer", "cus_1", "--new")
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciled subscription sub_1")
	assert.Equal(t, "sub_1", ops.gotSub)
	assert.Equal(t, "cus_1", ops.gotCust)
	assert.True(t, ops.gotNew)
}

func TestReconcileCmdRequiresFlags(t *testing.T) {
	ops := &fakeOps{}
	_, err := run(t, ops, "reconcile", "--subscription", "sub_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer")
	assert.Empty(t, ops.gotSub)
}

func TestConnectFailure(t *testing.T) {
	root := newRootCmd(func(context.Context) (billingOps, error) { return nil, errors.New("no database") })
	root.SetArgs([]string{"sync-catalog"})
	root.SetOut(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	assert.EqualError(t, err, "no database")
}
