package movierental

import (
	"context"
	"fmt"
)

// Customer is a row of the Customers table. Customers are created outside
// this tool; only the email can be changed here.
type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

const updateCustomerEmailSql = `
    UPDATE Customers
    SET email = $1
    WHERE customer_id = $2
    RETURNING email;`

const removeCustomerSql = `
    DELETE FROM Customers
    WHERE customer_id = $1;`

const getCustomerSql = `
    SELECT customer_id, first_name, last_name, email, phone_number
    FROM Customers
    WHERE customer_id = $1;`

// UpdateCustomerEmail sets a new email for the customer. found is false when
// no customer has that id. An email already used by someone else yields a
// DatabaseError of kind KindUniqueViolation.
func (c *DB) UpdateCustomerEmail(ctx context.Context, customerID int64, newEmail string) (email string, found bool, err error) {
	res, err := c.Query(ctx, updateCustomerEmailSql, newEmail, customerID)
	if err != nil {
		return "", false, wrapErr("update customer email", err)
	}
	if res.RowCount == 0 {
		return "", false, nil
	}
	email, err = asString(res.Rows[0]["email"])
	if err != nil {
		return "", false, &DatabaseError{Op: "update customer email", Kind: KindStatement, Err: err}
	}
	return email, true, nil
}

// RemoveCustomer deletes the customer. Their rentals go with them through
// the ON DELETE CASCADE rule. found is false when no customer has that id.
func (c *DB) RemoveCustomer(ctx context.Context, customerID int64) (found bool, err error) {
	res, err := c.Exec(ctx, removeCustomerSql, customerID)
	if err != nil {
		return false, wrapErr("remove customer", err)
	}
	return res.RowCount > 0, nil
}

// GetCustomer loads one customer. found is false when the id is unknown.
func (c *DB) GetCustomer(ctx context.Context, customerID int64) (cust Customer, found bool, err error) {
	res, err := c.Query(ctx, getCustomerSql, customerID)
	if err != nil {
		return Customer{}, false, wrapErr("get customer", err)
	}
	if len(res.Rows) == 0 {
		return Customer{}, false, nil
	}
	cust, err = decodeCustomer(res.Rows[0])
	if err != nil {
		return Customer{}, false, &DatabaseError{Op: "get customer", Kind: KindStatement, Err: err}
	}
	return cust, true, nil
}

func decodeCustomer(row Row) (Customer, error) {
	var (
		cust Customer
		err  error
	)
	if cust.ID, err = asInt64(row["customer_id"]); err != nil {
		return cust, fmt.Errorf("customer_id: %w", err)
	}
	fields := []struct {
		col string
		dst *string
	}{
		{"first_name", &cust.FirstName},
		{"last_name", &cust.LastName},
		{"email", &cust.Email},
		{"phone_number", &cust.PhoneNumber},
	}
	for _, f := range fields {
		if *f.dst, err = asString(row[f.col]); err != nil {
			return cust, fmt.Errorf("%s: %w", f.col, err)
		}
	}
	return cust, nil
}
