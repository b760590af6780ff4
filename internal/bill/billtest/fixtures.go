// Package billtest holds bill fixtures shared by tests.
package billtest

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

// Bills returns a fresh copy of four bills in no particular date order.
func Bills() []*bill.Bill {
	return []*bill.Bill{
		{
			ID:           uuid.MustParse("47b5a3f0-0a3b-4c2d-9b1e-5b2a3f0c9d11"),
			Email:        "a@a",
			Type:         "Hôtel et logement",
			Name:         "encore",
			Amount:       decimal.NewFromInt(400),
			Date:         "2004-04-04",
			VAT:          "80",
			Pct:          20,
			Commentary:   "séminaire billed",
			FileURL:      "https://test.storage.tld/v0/b/billable/preview-facture-free-201801-pdf-1.jpg?alt=media",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Status:       bill.StatusPending,
			CommentAdmin: "ok",
		},
		{
			ID:         uuid.MustParse("bc2b5f2e-1b5a-4c4e-8c2f-27b9c0a3c5d2"),
			Email:      "a@a",
			Type:       "Restaurants et bars",
			Name:       "test1",
			Amount:     decimal.NewFromInt(100),
			Date:       "2001-01-01",
			VAT:        "",
			Pct:        20,
			Commentary: "plop",
			FileURL:    "https://test.storage.tld/v0/b/billable/facture.pdf",
			FileName:   "facture.pdf",
			Status:     bill.StatusRefused,
		},
		{
			ID:           uuid.MustParse("0f6a5cf1-3a0b-4f1e-9a3c-8e6e0a4f7b13"),
			Email:        "a@a",
			Type:         "Services en ligne",
			Name:         "test3",
			Amount:       decimal.NewFromInt(300),
			Date:         "2003-03-03",
			VAT:          "60",
			Pct:          20,
			Commentary:   "",
			FileURL:      "https://test.storage.tld/v0/b/billable/facture-client.jpg",
			FileName:     "facture-client.jpg",
			Status:       bill.StatusAccepted,
			CommentAdmin: "bon bah d'accord",
		},
		{
			ID:         uuid.MustParse("9d2c1a7e-5b4f-4e3a-b1c9-2f8d7e6a5b44"),
			Email:      "a@a",
			Type:       "Transports",
			Name:       "test2",
			Amount:     decimal.NewFromInt(200),
			Date:       "2002-02-02",
			VAT:        "40",
			Pct:        20,
			Commentary: "test2",
			FileURL:    "https://test.storage.tld/v0/b/billable/preview-facture-free-201801-pdf-1.jpg",
			FileName:   "preview-facture-free-201801-pdf-1.jpg",
			Status:     bill.StatusRefused,
		},
	}
}
