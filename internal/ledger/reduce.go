package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
	"puntoventa/backend/internal/xid"
)

// Reduce applies one action to the state and returns the successor state.
// On error the returned state is the input unchanged; no action ever leaves
// partial effects behind.
func Reduce(s State, action Action) (State, error) {
	switch a := action.(type) {
	case AddItem:
		next := s.clone()
		next.Cart.Items = append(next.Cart.Items, a.Item)
		return next, nil

	case UpdateItem:
		if a.Index < 0 || a.Index >= len(s.Cart.Items) {
			return s, ErrInvalidIndex
		}
		next := s.clone()
		next.Cart.Items[a.Index] = a.Item
		return next, nil

	case RemoveItem:
		if a.Index < 0 || a.Index >= len(s.Cart.Items) {
			return s, ErrInvalidIndex
		}
		next := s.clone()
		next.Cart.Items = append(next.Cart.Items[:a.Index], next.Cart.Items[a.Index+1:]...)
		return next, nil

	case ClearCart:
		next := s.clone()
		next.resetCart()
		return next, nil

	case SetDiscount:
		if a.Amount.IsNegative() {
			return s, ErrInvalidAmount
		}
		next := s.clone()
		next.GlobalDiscount = a.Amount
		return next, nil

	case SelectCustomer:
		next := s.clone()
		if a.CustomerID == "" {
			next.Customer = nil
			return next, nil
		}
		c, ok := s.Customers[a.CustomerID]
		if !ok {
			return s, ErrNotFound
		}
		next.Customer = &c
		return next, nil

	case SetPayment:
		if a.Amount.IsNegative() {
			return s, ErrInvalidAmount
		}
		next := s.clone()
		next.PaymentMethod = a.Method
		next.PaymentAmount = a.Amount
		return next, nil

	case UpsertProduct:
		if a.Product.ID == "" {
			return s, ErrMissingID
		}
		next := s.clone()
		next.Products[a.Product.ID] = a.Product
		return next, nil

	case DeleteProduct:
		if _, ok := s.Products[a.ProductID]; !ok {
			return s, ErrNotFound
		}
		next := s.clone()
		delete(next.Products, a.ProductID)
		for prov, byProduct := range next.Restock {
			delete(byProduct, a.ProductID)
			if len(byProduct) == 0 {
				delete(next.Restock, prov)
			}
		}
		return next, nil

	case UpsertProvider:
		if a.Provider.ID == "" {
			return s, ErrMissingID
		}
		next := s.clone()
		next.Providers[a.Provider.ID] = a.Provider
		return next, nil

	case UpsertCustomer:
		if a.Customer.ID == "" {
			return s, ErrMissingID
		}
		next := s.clone()
		next.Customers[a.Customer.ID] = a.Customer
		if next.Customer != nil && next.Customer.ID == a.Customer.ID {
			c := a.Customer
			next.Customer = &c
		}
		return next, nil

	case DeleteCustomer:
		c, ok := s.Customers[a.CustomerID]
		if !ok {
			return s, ErrNotFound
		}
		if c.Balance.IsNegative() {
			return s, ErrCustomerHasDebt
		}
		next := s.clone()
		delete(next.Customers, a.CustomerID)
		if next.Customer != nil && next.Customer.ID == a.CustomerID {
			next.Customer = nil
		}
		return next, nil

	case AdjustCustomerBalance:
		c, ok := s.Customers[a.CustomerID]
		if !ok {
			return s, ErrNotFound
		}
		next := s.clone()
		c.Balance = c.Balance.Add(a.Delta)
		next.Customers[a.CustomerID] = c
		return next, nil

	case SaveSale:
		return reduceSaveSale(s, a.Sale)

	case OpenRegister:
		if s.Register.IsOpen {
			return s, ErrRegisterAlreadyOpen
		}
		if !a.OpeningAmount.IsPositive() {
			return s, ErrInvalidOpeningAmount
		}
		next := s.clone()
		reg := domain.NewClosedRegister()
		reg.IsOpen = true
		reg.OpenedAt = a.At
		reg.OpeningAmount = a.OpeningAmount
		reg.CurrentAmount = a.OpeningAmount
		reg.Movements = append(reg.Movements, domain.CashMovement{
			ID:        xid.New("mov"),
			Kind:      domain.MovementOpening,
			Concept:   "Apertura de caja",
			Amount:    a.OpeningAmount,
			CreatedAt: a.At,
		})
		next.Register = reg
		return next, nil

	case AddCashMovement:
		// Silent no-op while closed: manual movements only make sense
		// inside a session.
		if !s.Register.IsOpen {
			return s, nil
		}
		if a.Amount.IsNegative() {
			return s, ErrInvalidAmount
		}
		next := s.clone()
		switch a.Kind {
		case domain.MovementIncome:
			next.Register.CurrentAmount = next.Register.CurrentAmount.Add(a.Amount)
		case domain.MovementExpense:
			next.Register.CurrentAmount = next.Register.CurrentAmount.Sub(a.Amount)
		}
		next.Register.Movements = append(next.Register.Movements, domain.CashMovement{
			ID:        xid.New("mov"),
			Kind:      a.Kind,
			Concept:   a.Concept,
			Amount:    a.Amount,
			CreatedAt: a.At,
		})
		return next, nil

	case CloseRegister:
		if !s.Register.IsOpen {
			return s, ErrRegisterNotOpen
		}
		return reduceCloseRegister(s, a.At)

	case ResetProviderRestock:
		next := s.clone()
		delete(next.Restock, a.ProviderID)
		return next, nil

	default:
		return s, ErrUnknownAction
	}
}

// reduceSaveSale runs the fixed commit sequence: stock, cash, customer
// debt, restock, document, sales log, cart reset. Quotes only hit the
// sales log and the cart reset.
func reduceSaveSale(s State, sale domain.Sale) (State, error) {
	next := s.clone()

	if sale.Type == domain.SaleTypeQuote {
		next.Sales = append(next.Sales, sale)
		next.resetCart()
		return next, nil
	}

	// Stock decrements floor at zero. Weighed products can legitimately
	// oversell a stale stock figure, so no negative stock and no error.
	for _, item := range sale.Items {
		p, ok := next.Products[item.ProductID]
		if !ok {
			continue
		}
		p.Stock = p.Stock.Sub(item.Quantity)
		if p.Stock.IsNegative() {
			p.Stock = decimal.Zero
		}
		next.Products[item.ProductID] = p
	}

	if next.Register.IsOpen {
		applyCashEffects(&next.Register, sale)
	}

	accountPath := sale.Payment.Method == domain.PayAccount || sale.Type == domain.SaleTypeCredit
	if accountPath && sale.Customer != nil {
		if c, ok := next.Customers[sale.Customer.ID]; ok {
			debt := sale.Total.Sub(sale.Payment.Amount)
			if debt.IsPositive() {
				c.Balance = c.Balance.Sub(debt)
				next.Customers[sale.Customer.ID] = c
			}
		}
	}

	for _, item := range sale.Items {
		p, ok := next.Products[item.ProductID]
		if !ok || p.ProviderID == "" {
			continue
		}
		byProduct := next.Restock[p.ProviderID]
		if byProduct == nil {
			byProduct = make(map[string]decimal.Decimal)
			next.Restock[p.ProviderID] = byProduct
		}
		byProduct[item.ProductID] = byProduct[item.ProductID].Add(item.Quantity)
	}

	next.Documents = append(next.Documents, domain.DocumentRecord{
		SaleID:    sale.ID,
		Number:    sale.DocNumber,
		Fiscal:    sale.Fiscal,
		CreatedAt: sale.CreatedAt,
	})

	next.Sales = append(next.Sales, sale)
	next.resetCart()
	return next, nil
}

// applyCashEffects mutates the (already cloned) register with the drawer
// arithmetic for one committed sale.
func applyCashEffects(reg *domain.CashRegister, sale domain.Sale) {
	method := sale.Payment.Method
	if sale.Type == domain.SaleTypeCredit {
		method = domain.PayAccount
	}

	switch method {
	case domain.PayCash:
		reg.CurrentAmount = reg.CurrentAmount.Add(sale.Total)
		reg.SalesByMethod[domain.PayCash] = reg.SalesByMethod[domain.PayCash].Add(sale.Total)
		reg.Movements = append(reg.Movements, domain.CashMovement{
			ID:        xid.New("mov"),
			Kind:      domain.MovementIncome,
			Concept:   "Venta " + sale.DocNumber,
			Amount:    sale.Total,
			SaleID:    sale.ID,
			CreatedAt: sale.CreatedAt,
		})
		if sale.Payment.Change.IsPositive() {
			reg.CurrentAmount = reg.CurrentAmount.Sub(sale.Payment.Change)
			reg.Movements = append(reg.Movements, domain.CashMovement{
				ID:        xid.New("mov"),
				Kind:      domain.MovementExpense,
				Concept:   "Vuelto " + sale.DocNumber,
				Amount:    sale.Payment.Change,
				SaleID:    sale.ID,
				CreatedAt: sale.CreatedAt,
			})
		}

	case domain.PayMixed:
		// Cash portion is what was actually handed over, capped at the
		// total. The remainder is assumed transferred and stays untracked
		// in the drawer.
		portion := sale.Payment.Amount
		if portion.GreaterThan(sale.Total) {
			portion = sale.Total
		}
		reg.CurrentAmount = reg.CurrentAmount.Add(portion)
		reg.CashFromMixed = reg.CashFromMixed.Add(portion)
		reg.SalesByMethod[domain.PayMixed] = reg.SalesByMethod[domain.PayMixed].Add(sale.Total)
		reg.Movements = append(reg.Movements, domain.CashMovement{
			ID:        xid.New("mov"),
			Kind:      domain.MovementIncome,
			Concept:   "Venta mixta " + sale.DocNumber,
			Amount:    portion,
			SaleID:    sale.ID,
			CreatedAt: sale.CreatedAt,
		})

	case domain.PayAccount:
		upfront := sale.Payment.Amount
		if upfront.IsPositive() {
			reg.CurrentAmount = reg.CurrentAmount.Add(upfront)
			reg.Movements = append(reg.Movements, domain.CashMovement{
				ID:        xid.New("mov"),
				Kind:      domain.MovementIncome,
				Concept:   "Entrega cuenta corriente " + sale.DocNumber,
				Amount:    upfront,
				SaleID:    sale.ID,
				CreatedAt: sale.CreatedAt,
			})
		}
		reg.SalesByMethod[domain.PayAccount] = reg.SalesByMethod[domain.PayAccount].Add(sale.Total)

	default:
		// transfer, card and any future method only move the accumulator.
		reg.SalesByMethod[method] = reg.SalesByMethod[method].Add(sale.Total)
	}
}

func reduceCloseRegister(s State, at time.Time) (State, error) {
	next := s.clone()
	reg := &next.Register

	// Manual movements only: sale-linked and opening/closing entries are
	// already represented by the accumulators and the opening amount.
	manualNet := decimal.Zero
	for _, m := range reg.Movements {
		if m.SaleID != "" {
			continue
		}
		switch m.Kind {
		case domain.MovementIncome:
			manualNet = manualNet.Add(m.Amount)
		case domain.MovementExpense:
			manualNet = manualNet.Sub(m.Amount)
		}
	}

	cashAcc := reg.SalesByMethod[domain.PayCash]
	expected := reg.OpeningAmount.Add(cashAcc).Add(reg.CashFromMixed).Add(manualNet)
	difference := reg.CurrentAmount.Sub(expected)

	turn := domain.TurnSummary{ByMethod: make(map[domain.PaymentMethod]decimal.Decimal)}
	for _, sale := range next.Sales {
		if sale.Type == domain.SaleTypeQuote || sale.CreatedAt.Before(reg.OpenedAt) {
			continue
		}
		turn.SalesCount++
		turn.Subtotal = turn.Subtotal.Add(sale.Subtotal)
		turn.TaxAmount = turn.TaxAmount.Add(sale.TaxAmount)
		turn.Total = turn.Total.Add(sale.Total)
		turn.Profit = turn.Profit.Add(sale.Profit)
		method := sale.Payment.Method
		if sale.Type == domain.SaleTypeCredit {
			method = domain.PayAccount
		}
		turn.ByMethod[method] = turn.ByMethod[method].Add(sale.Total)
	}

	reg.Movements = append(reg.Movements, domain.CashMovement{
		ID:        xid.New("mov"),
		Kind:      domain.MovementClosing,
		Concept:   "Cierre de caja",
		Amount:    reg.CurrentAmount,
		CreatedAt: at,
	})

	closure := domain.CashClosure{
		ID:             xid.New("closure"),
		OpenedAt:       reg.OpenedAt,
		ClosedAt:       at,
		OpeningAmount:  reg.OpeningAmount,
		CurrentAmount:  reg.CurrentAmount,
		ExpectedAmount: expected,
		Difference:     difference,
		ManualNet:      manualNet,
		CashFromMixed:  reg.CashFromMixed,
		SalesByMethod:  reg.SalesByMethod,
		Movements:      reg.Movements,
		Turn:           turn,
	}

	next.Closures = append(next.Closures, closure)
	next.Register = domain.NewClosedRegister()
	return next, nil
}
