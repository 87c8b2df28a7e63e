// Package booking implements the customer booking flow and the admin order workflow.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/calendar"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/printing"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/storage"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Page size bounds for the admin list
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PhoneVerifier answers whether a phone passed SMS verification
type PhoneVerifier interface {
	IsVerified(ctx context.Context, phone string) (bool, error)
	Consume(ctx context.Context, phone string) error
}

// WorkOrderPrinter renders an order to PDF
type WorkOrderPrinter interface {
	Print(ctx context.Context, order *booking.Order) (*printing.RenderResult, error)
}

// Config holds the business limits of the booking flow
type Config struct {
	RequireVerification bool
	MaxOrdersPerPhone   int
	MaxPhotos           int
	MaxPhotoSize        int64
}

// Dependencies groups what OrderService talks to
type Dependencies struct {
	Orders   booking.OrderRepository
	Dates    calendar.AvailableDateRepository
	Photos   storage.PhotoStorage
	Verifier PhoneVerifier
	Events   shared.EventPublisher
	Printer  WorkOrderPrinter
	Clock    shared.Clock
	Metrics  *telemetry.BookingMetrics
}

// OrderService handles order operations
type OrderService struct {
	orders   booking.OrderRepository
	dates    calendar.AvailableDateRepository
	photos   storage.PhotoStorage
	verifier PhoneVerifier
	events   shared.EventPublisher
	printer  WorkOrderPrinter
	clock    shared.Clock
	metrics  *telemetry.BookingMetrics
	config   Config
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(deps Dependencies, config Config, logger *zap.Logger) *OrderService {
	if config.MaxPhotos <= 0 || config.MaxPhotos > booking.MaxPhotosPerOrder {
		config.MaxPhotos = booking.MaxPhotosPerOrder
	}
	if deps.Clock == nil {
		deps.Clock = shared.SystemClock{}
	}
	return &OrderService{
		orders:   deps.Orders,
		dates:    deps.Dates,
		photos:   deps.Photos,
		verifier: deps.Verifier,
		events:   deps.Events,
		printer:  deps.Printer,
		clock:    deps.Clock,
		metrics:  deps.Metrics,
		config:   config,
		logger:   logger,
	}
}

// Create validates and stores a submitted order with its photos
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (result *CreateOrderResult, err error) {
	phone, err := valueobject.NewPhone(input.Phone)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrPhone, phone.Masked(),
		telemetry.SpanAttrDate, input.SelectedDate,
		telemetry.SpanAttrCount, len(input.Files))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.FromContext(ctx, s.logger).With(logger.Phone(phone.String()))

	if s.config.RequireVerification {
		verified, err := s.verifier.IsVerified(ctx, phone.String())
		if err != nil {
			return nil, fmt.Errorf("failed to check verification: %w", err)
		}
		if !verified {
			return nil, booking.ErrPhoneNotVerified
		}
	}

	if s.config.MaxOrdersPerPhone > 0 {
		count, err := s.orders.CountByPhone(ctx, phone.String())
		if err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}
		if count >= int64(s.config.MaxOrdersPerPhone) {
			log.Info("Order limit reached", zap.Int64("orders", count))
			return nil, shared.NewDomainError("ORDER_LIMIT",
				fmt.Sprintf("Maximum %d orders per phone number", s.config.MaxOrdersPerPhone))
		}
	}

	if err := s.checkDate(ctx, input.SelectedDate); err != nil {
		return nil, err
	}

	// text fields first so a bad form costs no uploads
	if err := booking.ValidateDetails(input.Address, input.Description); err != nil {
		return nil, err
	}
	if len(input.Files) > s.config.MaxPhotos {
		return nil, shared.NewDomainError(booking.ErrTooManyPhotos.Code,
			fmt.Sprintf("Maximum %d photos per order", s.config.MaxPhotos))
	}
	for _, f := range input.Files {
		if err := storage.ValidateUpload(f, s.config.MaxPhotoSize); err != nil {
			return nil, err
		}
	}

	refs := make([]string, 0, len(input.Files))
	for _, f := range input.Files {
		ref, err := s.photos.Save(ctx, f)
		if err != nil {
			s.removePhotos(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}

	order, err := booking.NewOrder(phone.String(), input.Address, input.Description, input.SelectedDate, refs)
	if err != nil {
		s.removePhotos(ctx, refs)
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		s.removePhotos(ctx, refs)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if s.config.RequireVerification {
		if err := s.verifier.Consume(ctx, phone.String()); err != nil {
			log.Warn("Failed to consume verification", zap.Error(err))
		}
	}
	s.publish(ctx, order)
	s.metrics.RecordOrderCreated(ctx)
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, order.ID.String())

	log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("selected_date", order.SelectedDate),
		zap.Int("photos", order.PhotoCount()))

	stage, err := booking.NextStage(booking.FormStageForm, booking.FormActionSubmitted)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{
		Order:   ToOrderResponse(order),
		Stage:   stage,
		Message: "Order created successfully",
	}, nil
}

// checkDate requires an open calendar entry on or after today
func (s *OrderService) checkDate(ctx context.Context, date string) error {
	day, err := valueobject.ParseDay(date)
	if err != nil {
		return err
	}
	if day.Before(valueobject.Today(s.clock)) {
		return booking.ErrDateUnavailable
	}
	entry, err := s.dates.FindByDate(ctx, day.String())
	if errors.Is(err, shared.ErrNotFound) {
		return booking.ErrDateUnavailable
	}
	if err != nil {
		return fmt.Errorf("failed to load date: %w", err)
	}
	if !entry.IsAvailable {
		return booking.ErrDateUnavailable
	}
	return nil
}

// List returns orders newest first
func (s *OrderService) List(ctx context.Context, filter ListOrdersFilter) (*shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	f.Page = max(filter.Page, 1)
	switch {
	case filter.PageSize <= 0:
		f.PageSize = DefaultPageSize
	case filter.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	default:
		f.PageSize = filter.PageSize
	}

	if filter.Status != "" {
		status := booking.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, booking.ErrInvalidStatus
		}
		f.Filters["status"] = string(status)
	}
	if filter.Phone != "" {
		if p, err := valueobject.NewPhone(filter.Phone); err == nil {
			f.Filters["phone"] = p.String()
		} else {
			f.Filters["phone"] = filter.Phone
		}
	}

	orders, err := s.orders.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	total, err := s.orders.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Get returns a single order
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdateStatus moves an order along its workflow
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (result *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		telemetry.SpanAttrOrderID, id.String(),
		telemetry.SpanAttrOrderStatus, status)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.ChangeStatus(booking.OrderStatus(status)); err != nil {
		return nil, err
	}
	if order.Status == from {
		resp := ToOrderResponse(order)
		return &resp, nil
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publish(ctx, order)
	s.metrics.RecordStatusChange(ctx, order.Status)

	logger.FromContext(ctx, s.logger).Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes an order and, best effort, its photos
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	s.removePhotos(ctx, order.Photos)

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return booking.ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	logger.FromContext(ctx, s.logger).Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

// Stats counts orders per status
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	stats := &OrderStats{ByStatus: make(map[string]int64, len(counts))}
	for _, status := range booking.AllOrderStatuses() {
		n := counts[status]
		stats.ByStatus[string(status)] = n
		stats.Total += n
	}
	return stats, nil
}

// PrintWorkOrder renders the order as a PDF work order
func (s *OrderService) PrintWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrderPDF, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.printer.Print(ctx, order)
	if err != nil {
		return nil, err
	}
	return &WorkOrderPDF{
		Filename: printing.WorkOrderFilename(order),
		Data:     result.PDFData,
		Pages:    result.PageCount,
	}, nil
}

func (s *OrderService) find(ctx context.Context, id uuid.UUID) (*booking.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, booking.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *booking.Order) {
	events := order.TakeEvents()
	if len(events) == 0 || s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to publish order events",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func (s *OrderService) removePhotos(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.photos.Delete(ctx, ref); err != nil {
			logger.FromContext(ctx, s.logger).Warn("Failed to delete photo",
				zap.String("photo", ref), zap.Error(err))
		}
	}
}
