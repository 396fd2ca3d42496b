package repository_test

import (
	"testing"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/port"
	"github.com/adiwidodo/gerai/internal/repository"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

type orderRepositorySuite struct {
	suite.Suite

	container testcontainers.Container
	pool      *pgxpool.Pool
	repo      port.OrderRepository
	catalog   port.CatalogRepository
}

// entry point to run the tests in the suite
func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

// before all tests in the suite
func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewOrder(suite.pool)
	suite.catalog = repository.NewCatalog(suite.pool)
}

// after all tests in the suite
func (suite *orderRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *orderRepositorySuite) TestInsertOrder() {
	tests := []struct {
		name      string
		orderFunc func() domain.Order
		wantError string
	}{
		{
			name:      "valid order with all fields: ok",
			orderFunc: suite.randomOrder,
		},
		{
			name: "invalid order, no lines: fail",
			orderFunc: func() domain.Order {
				o := suite.randomOrder()
				o.Lines = nil
				return o
			},
			wantError: "no lines in order",
		},
		{
			name: "unrecognized payment method is stored as-is",
			orderFunc: func() domain.Order {
				o := suite.randomOrder()
				o.PaymentMethod = "barter"
				return o
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttOrder := tt.orderFunc()

			orderID, err := suite.repo.InsertOrder(ctx, ttOrder)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actualOrder, err := suite.repo.GetOrder(ctx, orderID)
			require.NoError(t, err)

			expected := ttOrder
			expected.ID = orderID

			assertOrder(t, expected, actualOrder)
		})
	}
}

func (suite *orderRepositorySuite) TestUpdateStatus() {
	tests := []struct {
		name         string
		newStatus    domain.OrderStatus
		targetIDFunc func() uuid.UUID // which order ID to update, if nil use the inserted one
		wantError    error
	}{
		{
			name:      "paid to shipped: ok",
			newStatus: domain.OrderStatusShipped,
		},
		{
			name:      "paid to delivered skips shipped: illegal",
			newStatus: domain.OrderStatusDelivered,
			wantError: domain.ErrStatusTransition,
		},
		{
			name:      "paid to cancelled: ok",
			newStatus: domain.OrderStatusCancelled,
		},
		{
			name:      "non-existing order: not found",
			newStatus: domain.OrderStatusShipped,
			targetIDFunc: func() uuid.UUID {
				return uuid.MustParse(gofakeit.UUID())
			},
			wantError: domain.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			orderID, err := suite.repo.InsertOrder(ctx, suite.randomOrder())
			require.NoError(t, err)

			targetOrderID := orderID
			if tt.targetIDFunc != nil {
				targetOrderID = tt.targetIDFunc()
			}

			err = suite.repo.UpdateStatus(ctx, targetOrderID, tt.newStatus)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			updatedOrder, err := suite.repo.GetOrder(ctx, orderID)
			require.NoError(t, err)
			assert.Equal(t, tt.newStatus, updatedOrder.Status)
		})
	}
}

func (suite *orderRepositorySuite) TestDeliveryFlow() {
	t := suite.T()
	ctx := t.Context()

	orderID, err := suite.repo.InsertOrder(ctx, suite.randomOrder())
	require.NoError(t, err)

	require.NoError(t, suite.repo.MarkShipped(ctx, orderID, "JNE-12345678"))
	require.NoError(t, suite.repo.UpdateStatus(ctx, orderID, domain.OrderStatusDelivered))

	order, err := suite.repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.Equal(t, "JNE-12345678", lo.FromPtr(order.TrackingNumber))

	// delivered orders cannot be cancelled
	err = suite.repo.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled)
	require.ErrorIs(t, err, domain.ErrStatusTransition)
}

func (suite *orderRepositorySuite) TestMarkShipped() {
	tests := []struct {
		name       string
		fromStatus domain.OrderStatus
		wantError  error
	}{
		{
			name:       "paid order ships",
			fromStatus: domain.OrderStatusPaid,
		},
		{
			name:       "cancelled order refuses shipping",
			fromStatus: domain.OrderStatusCancelled,
			wantError:  domain.ErrStatusTransition,
		},
		{
			name:       "delivered order refuses shipping",
			fromStatus: domain.OrderStatusDelivered,
			wantError:  domain.ErrStatusTransition,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			orderID, err := suite.repo.InsertOrder(ctx, suite.randomOrder())
			require.NoError(t, err)
			suite.forceStatus(orderID, tt.fromStatus)

			err = suite.repo.MarkShipped(ctx, orderID, "SICEPAT-42")
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)

				// the refused transition must not leave anything behind
				order, err := suite.repo.GetOrder(ctx, orderID)
				require.NoError(t, err)
				assert.Equal(t, tt.fromStatus, order.Status)
				assert.Nil(t, order.TrackingNumber)
				return
			}
			require.NoError(t, err)

			order, err := suite.repo.GetOrder(ctx, orderID)
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatusShipped, order.Status)
			assert.Equal(t, "SICEPAT-42", lo.FromPtr(order.TrackingNumber))
		})
	}

	err := suite.repo.MarkShipped(suite.T().Context(), uuid.MustParse(gofakeit.UUID()), "SICEPAT-42")
	require.ErrorIs(suite.T(), err, domain.ErrOrderNotFound)
}

// forceStatus moves an order into an arbitrary status for test setup,
// bypassing the transition rules.
func (suite *orderRepositorySuite) forceStatus(orderID uuid.UUID, status domain.OrderStatus) {
	t := suite.T()

	_, err := suite.pool.Exec(t.Context(),
		`UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(status))
	require.NoError(t, err)
}

func (suite *orderRepositorySuite) TestListOrders() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()

	first := suite.randomOrder()
	first.OwnerID = ownerID
	second := suite.randomOrder()
	second.OwnerID = ownerID

	firstID, err := suite.repo.InsertOrder(ctx, first)
	require.NoError(t, err)
	secondID, err := suite.repo.InsertOrder(ctx, second)
	require.NoError(t, err)

	// someone else's order must not show up
	_, err = suite.repo.InsertOrder(ctx, suite.randomOrder())
	require.NoError(t, err)

	orders, err := suite.repo.ListOrders(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	gotIDs := []uuid.UUID{orders[0].ID, orders[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{firstID, secondID}, gotIDs)
	for _, order := range orders {
		assert.Len(t, order.Lines, 2)
	}
}

func (suite *orderRepositorySuite) TestSearchOrders() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()

	order := suite.randomOrder()
	order.OwnerID = ownerID

	orderID, err := suite.repo.InsertOrder(ctx, order)
	require.NoError(t, err)

	tests := []struct {
		name    string
		filter  domain.OrderFilter
		wantHit bool
		wantErr string
	}{
		{
			name:    "by id",
			filter:  domain.OrderFilter{IDs: []uuid.UUID{orderID}},
			wantHit: true,
		},
		{
			name:    "by owner and status",
			filter:  domain.OrderFilter{OwnerIDs: []string{ownerID}, Statuses: []domain.OrderStatus{domain.OrderStatusPaid}},
			wantHit: true,
		},
		{
			name:   "by owner, wrong status",
			filter: domain.OrderFilter{OwnerIDs: []string{ownerID}, Statuses: []domain.OrderStatus{domain.OrderStatusShipped}},
		},
		{
			name:    "empty filter: error",
			filter:  domain.OrderFilter{},
			wantErr: "filter.Validate: all fields are empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			orders, err := suite.repo.SearchOrders(ctx, tt.filter)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			if tt.wantHit {
				require.Len(t, orders, 1)
				assert.Equal(t, orderID, orders[0].ID)
			} else {
				assert.Empty(t, orders)
			}
		})
	}
}

func (suite *orderRepositorySuite) randomOrder() domain.Order {
	t := suite.T()
	ctx := t.Context()

	variant1 := seedVariant(t, ctx, suite.catalog, 450_000, 100)
	variant2 := seedVariant(t, ctx, suite.catalog, 320_000, 100)

	return domain.Order{
		OwnerID:         gofakeit.UUID(),
		Status:          domain.OrderStatusPaid,
		Total:           domain.NewIDR(1_106_000),
		ShippingCost:    domain.NewIDR(domain.ShippingCost),
		AdminFee:        domain.NewIDR(domain.AdminFee),
		ShippingAddress: fakeAddress(gofakeit.UUID()).Snapshot(),
		PaymentMethod:   domain.PaymentQRIS,
		Lines: []domain.OrderLine{
			{VariantID: variant1.ID, Quantity: 1, UnitPrice: variant1.Price},
			{VariantID: variant2.ID, Quantity: 2, UnitPrice: variant2.Price},
		},
	}
}

func assertOrder(t *testing.T, expected domain.Order, actual domain.Order) {
	t.Helper()

	// Custom comparer for Money.Currency fields
	comparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	// decimal values compare by magnitude, not representation
	decComparer := cmp.Comparer(func(x, y domain.Money) bool {
		return x.Equal(y)
	})

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Order{}, "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(domain.OrderLine{}, "ID", "OrderID", "CreatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, decComparer, comparer, opts)
	assert.Empty(t, diff)
}
