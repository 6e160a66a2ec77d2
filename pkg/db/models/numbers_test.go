package models

import (
	"testing"
	"time"
)

func TestHumanNumber(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := HumanNumber(PrefixContract, at); got != "CTR20260314092653" {
		t.Fatalf("unexpected number %q", got)
	}
}

func TestHumanNumberUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2026, 3, 14, 14, 0, 0, 0, loc)
	if got := HumanNumber(PrefixInvoice, at); got != "INV20260314090000" {
		t.Fatalf("expected UTC normalization, got %q", got)
	}
}

func TestEnsureNumberAssignsOnce(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	invoice := &Invoice{}
	invoice.EnsureNumber(at)
	if invoice.InvoiceNumber != "INV20260314092653" {
		t.Fatalf("unexpected invoice number %q", invoice.InvoiceNumber)
	}
	invoice.EnsureNumber(at.Add(time.Hour))
	if invoice.InvoiceNumber != "INV20260314092653" {
		t.Fatalf("number must not change once assigned, got %q", invoice.InvoiceNumber)
	}

	contract := &Contract{ContractNumber: "CTR-CUSTOM"}
	contract.EnsureNumber(at)
	if contract.ContractNumber != "CTR-CUSTOM" {
		t.Fatalf("caller-supplied number must win, got %q", contract.ContractNumber)
	}

	task := &MaintenanceRequest{}
	task.EnsureNumber(at)
	if task.TaskNumber != "TSK20260314092653" {
		t.Fatalf("unexpected task number %q", task.TaskNumber)
	}

	event := &CalendarEvent{}
	event.EnsureNumber(at)
	if event.EventID != "EVT20260314092653" {
		t.Fatalf("unexpected event id %q", event.EventID)
	}

	trx := &Transaction{}
	trx.EnsureNumber(at)
	if trx.TransactionNumber != "TRX20260314092653" {
		t.Fatalf("unexpected transaction number %q", trx.TransactionNumber)
	}
}
