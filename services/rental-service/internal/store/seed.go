package store

import (
	"context"
	"time"

	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/schedule"
)

// Seed loads demo data into an empty store: the CT fleet, a few clients and
// two upcoming bookings with their payments and a quote. A store that
// already has clients is left alone so a restored snapshot is not polluted.
func Seed(ctx context.Context, s Store, now time.Time) error {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return err
	}
	if len(clients) > 0 {
		return nil
	}

	now = now.UTC().Truncate(time.Minute)
	maint1 := now.AddDate(0, 0, -14)
	maint2 := now.AddDate(0, 0, -21)
	maint3 := now.AddDate(0, 0, -40)

	seedClients := []model.Client{
		{
			ID: "client-1", Name: "João Silva", Company: "Silva Eventos",
			Email: "joao@silvaeventos.com", Phone: "(11) 99999-9999",
			Address: "Rua das Flores, 123", City: "São Paulo", State: "SP",
			SafetyMarginHours: 6, IsVIP: true, Status: model.ClientActive,
			Notes: "Cliente VIP, sempre pontual nos pagamentos", CreatedAt: now,
		},
		{
			ID: "client-2", Name: "Maria Santos", Company: "Santos Construções",
			Email: "maria@santosconstrucoes.com", Phone: "(11) 88888-8888",
			Address: "Av. Paulista, 1000", City: "São Paulo", State: "SP",
			SafetyMarginHours: 8, Status: model.ClientActive,
			Tags: []string{"corporativo", "grandes-eventos"}, CreatedAt: now,
		},
		{
			ID: "client-3", Name: "Pedro Costa", Company: "Costa Festas",
			Email: "pedro@costafestas.com", Phone: "(11) 77777-7777",
			Address: "Rua Augusta, 500", City: "São Paulo", State: "SP",
			SafetyMarginHours: 6, Status: model.ClientInactive,
			Notes: "Verificar pendências financeiras", CreatedAt: now,
		},
	}
	for _, c := range seedClients {
		if err := s.InsertClient(ctx, c); err != nil {
			return err
		}
	}

	seedEquipment := []model.Equipment{
		{
			ID: "eq-ct50-001", Code: "CT50-001", Model: "CT50",
			Name: "CT50 - Climatizador Evaporativo", Status: model.EquipmentAvailable,
			AirflowM3h: 10000, MotorW: 380, NoiseDb: 60, TankL: 100,
			Quantity:        model.Quantity{Total: 15, Available: 12, Reserved: 3},
			LastMaintenance: &maint1,
			Notes:           "Unidade com melhor eficiência energética", CreatedAt: now,
		},
		{
			ID: "eq-ct80-001", Code: "CT80-001", Model: "CT80",
			Name: "CT80 - Climatizador Evaporativo", Status: model.EquipmentAvailable,
			AirflowM3h: 16000, MotorW: 510, NoiseDb: 60, TankL: 80,
			Quantity:        model.Quantity{Total: 12, Available: 10, Reserved: 2},
			LastMaintenance: &maint2,
			Notes:           "Ideal para eventos médios", CreatedAt: now,
		},
		{
			ID: "eq-ct90-001", Code: "CT90-001", Model: "CT90",
			Name: "CT90 - Climatizador Evaporativo", Status: model.EquipmentAvailable,
			AirflowM3h: 20000, MotorW: 750, NoiseDb: 68, TankL: 150,
			Quantity:        model.Quantity{Total: 8, Available: 6, Reserved: 2},
			LastMaintenance: &maint3,
			Notes:           "Maior capacidade, para grandes eventos", CreatedAt: now,
		},
	}
	for _, e := range seedEquipment {
		if err := s.InsertEquipment(ctx, e); err != nil {
			return err
		}
	}

	b1Start := now.AddDate(0, 0, 7)
	b1End := b1Start.AddDate(0, 0, 2)
	b1HoldStart, b1HoldEnd := schedule.HoldWindow(b1Start, b1End, 6)

	b2Start := now.AddDate(0, 0, 14)
	b2End := b2Start.AddDate(0, 0, 1)
	b2HoldStart, b2HoldEnd := schedule.HoldWindow(b2Start, b2End, 8)

	seedBookings := []model.Booking{
		{
			ID: "booking-1", ClientID: "client-1",
			EquipmentIDs: []string{"eq-ct50-001", "eq-ct80-001"},
			Site:         "Centro de Convenções Anhembi",
			Address:      "Av. Olavo Fontoura, 1209 - Santana, São Paulo/SP",
			Start:        b1Start, End: b1End, MarginHours: 6,
			HoldStart: b1HoldStart, HoldEnd: b1HoldEnd,
			Status:      model.BookingScheduled,
			TotalPerDay: 800, Days: 2, TotalAmount: 1600,
			Notes: "Evento corporativo - requer instalação às 6h", CreatedAt: now,
		},
		{
			ID: "booking-2", ClientID: "client-2",
			EquipmentIDs: []string{"eq-ct90-001"},
			Site:         "Espaço Villa Country",
			Address:      "Rod. Raposo Tavares, km 22 - Cotia/SP",
			Start:        b2Start, End: b2End, MarginHours: 8,
			HoldStart: b2HoldStart, HoldEnd: b2HoldEnd,
			Status:      model.BookingScheduled,
			TotalPerDay: 1200, Days: 1, TotalAmount: 1200,
			Notes: "Casamento - evento de alta qualidade", CreatedAt: now,
		},
	}
	for _, b := range seedBookings {
		if err := s.InsertBooking(ctx, b); err != nil {
			return err
		}
	}

	due := now.AddDate(0, 0, 7)
	seedPayments := []model.Payment{
		{
			ID: "payment-1", ClientID: "client-1", BookingID: "booking-1",
			Date: now, Amount: 800, Method: model.PaymentPix,
			Status: model.PaymentPaid, PaidAt: &now,
			Notes: "Entrada do evento Anhembi", CreatedAt: now,
		},
		{
			ID: "payment-2", ClientID: "client-2", BookingID: "booking-2",
			Date: now, Amount: 1200, Method: model.PaymentBoleto,
			Status: model.PaymentPending, DueDate: &due,
			Notes: "Pagamento evento Villa Country", CreatedAt: now,
		},
	}
	for _, p := range seedPayments {
		if err := s.InsertPayment(ctx, p); err != nil {
			return err
		}
	}

	quote := model.Quote{
		ID: "quote-1", ClientID: "client-1", BookingID: "booking-1",
		Title: "Proposta - Centro de Convenções Anhembi",
		Items: []model.QuoteItem{
			{EquipmentID: "eq-ct50-001", Quantity: 1, Days: 2, DailyRate: 300, Total: 600},
			{EquipmentID: "eq-ct80-001", Quantity: 1, Days: 2, DailyRate: 400, Total: 800},
		},
		Subtotal: 1400, Discount: 100, Taxes: 0, Total: 1300,
		ValidUntil: now.AddDate(0, 0, 30), Status: model.QuoteSent,
		CreatedAt: now, UpdatedAt: now,
	}
	return s.InsertQuote(ctx, quote)
}
