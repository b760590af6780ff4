package container_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/container"
	"github.com/MrJamesThe3rd/billed/internal/route"
)

type recorder struct {
	alerts    []string
	navigated []string
}

func (r *recorder) navigate(path string) { r.navigated = append(r.navigated, path) }
func (r *recorder) Alert(msg string)     { r.alerts = append(r.alerts, msg) }

var validForm = container.Form{
	Type:       "Hôtel et logement",
	Name:       "encore",
	Date:       "2004-04-04",
	Amount:     "400",
	VAT:        "80",
	Pct:        "20",
	Commentary: "séminaire billed",
}

func TestNewBill_HandleChangeFile(t *testing.T) {
	type testCase struct {
		name         string
		file         bill.File
		wantState    container.State
		wantFileName string
		wantAlerts   []string
	}

	tests := []testCase{
		{
			name:       "WrongFormat",
			file:       bill.File{Name: "document.txt", ContentType: "document/txt", Data: []byte("document.txt")},
			wantState:  container.StateEmpty,
			wantAlerts: []string{"Choose a jpg, jpeg, or png format"},
		},
		{
			name:         "Image",
			file:         bill.File{Name: "image.png", ContentType: "image/png", Data: []byte("image.png")},
			wantState:    container.StateFileChosen,
			wantFileName: "image.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := container.NewNewBill(nil, rec.navigate, rec, employee, discard)

			err := c.HandleChangeFile(tt.file)

			if tt.wantAlerts != nil {
				var vErr *attachment.ValidationError
				assert.True(t, errors.As(err, &vErr))
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantState, c.State())
			assert.Equal(t, tt.wantFileName, c.FileName())
			assert.Empty(t, c.FileURL())
			assert.Equal(t, tt.wantAlerts, rec.alerts)
		})
	}
}

func TestNewBill_BadFileClearsPreviousChoice(t *testing.T) {
	rec := &recorder{}
	c := container.NewNewBill(nil, rec.navigate, rec, employee, discard)

	require.NoError(t, c.HandleChangeFile(bill.File{Name: "image.png"}))
	require.Error(t, c.HandleChangeFile(bill.File{Name: "document.txt"}))

	assert.Equal(t, container.StateEmpty, c.State())
	assert.Empty(t, c.FileName())
	assert.Len(t, rec.alerts, 1)
}

func TestNewBill_HandleSubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, api := newStore(ctrl)

	api.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *bill.Bill, f *bill.File) (*bill.Bill, error) {
			assert.Equal(t, "employee@test.tld", b.Email)
			assert.Equal(t, bill.StatusPending, b.Status)
			assert.True(t, decimal.NewFromInt(400).Equal(b.Amount))
			assert.Equal(t, 20, b.Pct)
			assert.Equal(t, "image.png", f.Name)

			created := *b
			created.ID = uuid.New()
			created.FileURL = "http://localhost/files/1"

			return &created, nil
		}).
		Times(1)

	rec := &recorder{}
	c := container.NewNewBill(store, rec.navigate, rec, employee, discard)

	require.NoError(t, c.HandleChangeFile(bill.File{Name: "image.png", ContentType: "image/png"}))
	require.NoError(t, c.HandleSubmit(context.Background(), validForm))

	assert.Equal(t, container.StateSuccess, c.State())
	assert.Equal(t, "http://localhost/files/1", c.FileURL())
	assert.Equal(t, []string{route.PathBills}, rec.navigated)
	assert.Empty(t, rec.alerts)

	// A second submit must not reach the store.
	assert.ErrorIs(t, c.HandleSubmit(context.Background(), validForm), container.ErrSubmitted)
}

func TestNewBill_HandleSubmit_DefaultPct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, api := newStore(ctrl)
	api.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *bill.Bill, _ *bill.File) (*bill.Bill, error) {
			assert.Equal(t, 20, b.Pct)
			return b, nil
		})

	rec := &recorder{}
	c := container.NewNewBill(store, rec.navigate, rec, employee, discard)

	form := validForm
	form.Pct = ""

	require.NoError(t, c.HandleChangeFile(bill.File{Name: "image.jpg"}))
	require.NoError(t, c.HandleSubmit(context.Background(), form))
}

func TestNewBill_HandleSubmit_WithoutFile(t *testing.T) {
	rec := &recorder{}
	c := container.NewNewBill(nil, rec.navigate, rec, employee, discard)

	err := c.HandleSubmit(context.Background(), validForm)

	var vErr *attachment.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{attachment.FormatMessage}, rec.alerts)
	assert.Empty(t, rec.navigated)
}

func TestNewBill_HandleSubmit_InvalidAmount(t *testing.T) {
	rec := &recorder{}
	c := container.NewNewBill(nil, rec.navigate, rec, employee, discard)

	require.NoError(t, c.HandleChangeFile(bill.File{Name: "image.png"}))

	form := validForm
	form.Amount = "beaucoup"

	assert.ErrorIs(t, c.HandleSubmit(context.Background(), form), bill.ErrInvalid)
	assert.Equal(t, container.StateFileChosen, c.State())
}

func TestNewBill_HandleSubmit_StoreError(t *testing.T) {
	for _, msg := range []string{"Erreur 404", "Erreur 500"} {
		t.Run(msg, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store, api := newStore(ctrl)
			api.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New(msg)).Times(1)

			rec := &recorder{}
			c := container.NewNewBill(store, rec.navigate, rec, employee, discard)

			require.NoError(t, c.HandleChangeFile(bill.File{Name: "image.png"}))
			require.Error(t, c.HandleSubmit(context.Background(), validForm))

			assert.Equal(t, container.StateFailed, c.State())
			assert.Empty(t, rec.navigated)
			assert.Contains(t, c.ErrorPage(), msg)
		})
	}
}

func TestNewBill_UpdateBill(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, api := newStore(ctrl)

	b := &bill.Bill{ID: uuid.New(), Name: "encore", Amount: decimal.NewFromInt(400), Date: "2004-04-04", Status: bill.StatusPending}
	api.EXPECT().Update(gomock.Any(), b).Return(b, nil).Times(1)

	rec := &recorder{}
	c := container.NewNewBill(store, rec.navigate, rec, employee, discard)

	require.NoError(t, c.UpdateBill(context.Background(), b))
	assert.Equal(t, []string{route.PathBills}, rec.navigated)
}
