package remote

import "time"

// seed loads the demo dataset. Ids are stable so demo links and tests can
// reference them directly.
func (b *MemoryBackend) seed() {
	now := time.Now().UTC()
	iso := func(t time.Time) string { return t.Format(time.RFC3339) }

	b.rows["synclogs"] = []map[string]any{
		{
			"id": "42", "resource": "invoices", "operation": "create",
			"status": "failed", "attempts": 3,
			"last_error": "downstream returned 502",
			"queued_at":  iso(now.Add(-90 * time.Minute)),
		},
		{
			"id": "43", "resource": "payments", "operation": "update",
			"status": "success", "attempts": 1,
			"queued_at":    iso(now.Add(-2 * time.Hour)),
			"completed_at": iso(now.Add(-119 * time.Minute)),
		},
		{
			"id": "44", "resource": "customers", "operation": "update",
			"status": "pending", "attempts": 0,
			"queued_at": iso(now.Add(-5 * time.Minute)),
		},
		{
			"id": "45", "resource": "invoices", "operation": "delete",
			"status": "failed", "attempts": 5,
			"last_error": "record locked downstream",
			"queued_at":  iso(now.Add(-26 * time.Hour)),
		},
	}

	b.rows["syncschedules"] = []map[string]any{
		{
			"id": "sched-invoices", "name": "Invoice push", "resource": "invoices",
			"cron": "*/15 * * * *", "active": true,
			"last_status": "success",
			"last_run_at": iso(now.Add(-12 * time.Minute)),
			"next_run_at": iso(now.Add(3 * time.Minute)),
		},
		{
			"id": "sched-payments", "name": "Payment push", "resource": "payments",
			"cron": "0 * * * *", "active": false,
			"last_status": "failed",
			"last_run_at": iso(now.Add(-3 * time.Hour)),
		},
	}

	tickets := []map[string]any{
		{
			"id": "tkt-1", "subject": "Cannot log in to portal", "status": "open",
			"priority": "urgent", "requester": "ada@example.com",
		},
		{
			"id": "tkt-2", "subject": "Invoice totals look wrong", "status": "pending",
			"priority": "high", "requester": "grace@example.com", "assigned_to": "sam",
		},
		{
			"id": "tkt-3", "subject": "Feature request: CSV export", "status": "open",
			"priority": "low", "requester": "linus@example.com",
		},
		{
			"id": "tkt-4", "subject": "Password reset email missing", "status": "resolved",
			"priority": "normal", "requester": "ada@example.com", "assigned_to": "kim",
		},
		{
			"id": "tkt-5", "subject": "Billing address outdated", "status": "closed",
			"priority": "normal", "requester": "grace@example.com", "assigned_to": "sam",
		},
	}
	for i, t := range tickets {
		t["created_at"] = iso(now.Add(-time.Duration(i+1) * 24 * time.Hour))
		t["updated_at"] = iso(now.Add(-time.Duration(i) * time.Hour))
	}
	b.rows["tickets"] = tickets

	b.rows["transactions"] = []map[string]any{
		{
			"id": "tx-1", "account": "AR", "description": "INV-1001 Hooli Ltd",
			"amount": 1200.00, "balance": 1200.00, "currency": "USD", "status": "posted",
			"posted_at": iso(now.Add(-10 * 24 * time.Hour)),
			"due_at":    iso(now.Add(5 * 24 * time.Hour)),
		},
		{
			"id": "tx-2", "account": "AR", "description": "INV-0992 Initech",
			"amount": 830.50, "balance": 830.50, "currency": "USD", "status": "posted",
			"posted_at": iso(now.Add(-40 * 24 * time.Hour)),
			"due_at":    iso(now.Add(-12 * 24 * time.Hour)),
		},
		{
			"id": "tx-3", "account": "AR", "description": "INV-0871 Globex",
			"amount": 449.99, "balance": 200.00, "currency": "USD", "status": "posted",
			"posted_at": iso(now.Add(-80 * 24 * time.Hour)),
			"due_at":    iso(now.Add(-47 * 24 * time.Hour)),
		},
		{
			"id": "tx-4", "account": "AR", "description": "INV-0764 Umbrella",
			"amount": 2300.00, "balance": 2300.00, "currency": "USD", "status": "posted",
			"posted_at": iso(now.Add(-150 * 24 * time.Hour)),
			"due_at":    iso(now.Add(-120 * 24 * time.Hour)),
		},
		{
			"id": "tx-5", "account": "Checking", "description": "Payroll run",
			"amount": -5400.00, "balance": 0.0, "currency": "USD", "status": "posted",
			"posted_at": iso(now.Add(-2 * 24 * time.Hour)),
		},
		{
			"id": "tx-6", "account": "AR", "description": "INV-1002 voided",
			"amount": 99.00, "balance": 99.00, "currency": "USD", "status": "void",
			"posted_at": iso(now.Add(-9 * 24 * time.Hour)),
		},
	}

	b.rows["templates"] = []map[string]any{
		{
			"id": "tpl-welcome", "name": "Welcome email", "channel": "email",
			"subject": "Welcome aboard", "body": "Hi {{name}}, welcome!", "active": true,
			"updated_at": iso(now.Add(-30 * 24 * time.Hour)),
		},
		{
			"id": "tpl-dunning", "name": "Payment reminder", "channel": "email",
			"subject": "Invoice overdue", "body": "Invoice {{number}} is overdue.", "active": true,
			"updated_at": iso(now.Add(-7 * 24 * time.Hour)),
		},
		{
			"id": "tpl-otp", "name": "Login code", "channel": "sms",
			"body": "Your code is {{code}}.", "active": false,
			"updated_at": iso(now.Add(-1 * 24 * time.Hour)),
		},
	}

	// The demo token can see everything.
	b.scopes["demo-token"] = []string{
		"admin.sync", "support.tickets", "books.transactions", "admin.templates",
	}
}
