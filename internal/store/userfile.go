package store

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obudget/obudget/internal/model"
)

const (
	colTag = 0

	accountFields = 2
	acctColName   = 1

	operationFields = 8
	dateFormat      = "02/01/2006"
	opColDate       = 1
	opColLabel      = 2
	opColAccount    = 3
	opColAmount     = 4
	opColPayment    = 5
	opColEffective  = 6
	opColBudget     = 7

	budgetFields   = 4
	budColCategory = 1
	budColAmount   = 2
	budColAccount  = 3
)

// ReadAccounts reads the accounts of an encoded user file according to mode.
func ReadAccounts(r io.Reader, key int, mode ScanMode) ([]model.Account, error) {
	var accounts []model.Account
	lr := newLineReader(r, key)
	for lr.Next() {
		if lr.Blank() {
			if mode == ScanPrefixRun {
				break
			}
			continue
		}
		fields := lr.Fields()
		tag := model.Tag(fields[colTag])
		if mode == ScanPrefixRun && tag != model.TagAccount {
			break
		}
		if !tag.Valid() {
			return nil, malformed(lr.Line(), "line", fmt.Errorf("unknown tag %q", tag))
		}
		if tag != model.TagAccount {
			continue
		}
		acct, err := UnmarshalAccount(fields)
		if err != nil {
			return nil, malformed(lr.Line(), "account", err)
		}
		accounts = append(accounts, acct)
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ReadOperations reads every `O` line of an encoded user file.
func ReadOperations(r io.Reader, key int, flag FlagMode) ([]model.Operation, error) {
	var ops []model.Operation
	err := fullScan(r, key, func(line int, tag model.Tag, fields []string) error {
		if tag != model.TagOperation {
			return nil
		}
		op, err := UnmarshalOperation(fields, flag)
		if err != nil {
			return malformed(line, "operation", err)
		}
		ops = append(ops, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}

// ReadBudgets reads every `B` line of an encoded user file.
func ReadBudgets(r io.Reader, key int) ([]model.Budget, error) {
	var budgets []model.Budget
	err := fullScan(r, key, func(line int, tag model.Tag, fields []string) error {
		if tag != model.TagBudget {
			return nil
		}
		b, err := UnmarshalBudget(fields)
		if err != nil {
			return malformed(line, "budget", err)
		}
		budgets = append(budgets, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

// ReadUserFile reads every record of an encoded user file in one pass.
// All `C` lines are kept; SelectAccounts applies a ScanMode afterwards.
func ReadUserFile(r io.Reader, key int, opts Options) (*model.UserFile, error) {
	f := &model.UserFile{}
	inRun := true
	lr := newLineReader(r, key)
	for lr.Next() {
		if lr.Blank() {
			inRun = false
			continue
		}
		fields := lr.Fields()
		tag := model.Tag(fields[colTag])
		switch tag {
		case model.TagAccount:
			acct, err := UnmarshalAccount(fields)
			if err != nil {
				return nil, malformed(lr.Line(), "account", err)
			}
			f.Lines = append(f.Lines, model.Line{Tag: tag, Index: len(f.Accounts)})
			f.Accounts = append(f.Accounts, acct)
			if inRun {
				f.AccountRun++
			}
			continue
		case model.TagOperation:
			op, err := UnmarshalOperation(fields, opts.Effective)
			if err != nil {
				return nil, malformed(lr.Line(), "operation", err)
			}
			f.Lines = append(f.Lines, model.Line{Tag: tag, Index: len(f.Operations)})
			f.Operations = append(f.Operations, op)
		case model.TagBudget:
			b, err := UnmarshalBudget(fields)
			if err != nil {
				return nil, malformed(lr.Line(), "budget", err)
			}
			f.Lines = append(f.Lines, model.Line{Tag: tag, Index: len(f.Budgets)})
			f.Budgets = append(f.Budgets, b)
		default:
			return nil, malformed(lr.Line(), "line", fmt.Errorf("unknown tag %q", tag))
		}
		inRun = false
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// SelectAccounts returns the accounts of f visible under mode.
func SelectAccounts(f *model.UserFile, mode ScanMode) []model.Account {
	if mode == ScanFullScan {
		return f.Accounts
	}
	return f.Accounts[:min(f.AccountRun, len(f.Accounts))]
}

// WriteUserFile writes an encoded user file in f.Order().
func WriteUserFile(w io.Writer, f *model.UserFile, key int, opts Options) error {
	for i, l := range f.Order() {
		var fields []string
		switch l.Tag {
		case model.TagAccount:
			fields = MarshalAccount(f.Accounts[l.Index])
		case model.TagOperation:
			fields = MarshalOperation(f.Operations[l.Index], opts.Effective)
		case model.TagBudget:
			fields = MarshalBudget(f.Budgets[l.Index])
		default:
			return fmt.Errorf("writing line %d: unknown tag %q", i+1, l.Tag)
		}
		line, err := encodeLine(fields, key)
		if err != nil {
			return fmt.Errorf("writing line %d: %w", i+1, err)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing line %d: %w", i+1, err)
		}
	}
	return nil
}

// fullScan visits every non-blank line and rejects unknown tags.
func fullScan(r io.Reader, key int, visit func(line int, tag model.Tag, fields []string) error) error {
	lr := newLineReader(r, key)
	for lr.Next() {
		if lr.Blank() {
			continue
		}
		fields := lr.Fields()
		tag := model.Tag(fields[colTag])
		if !tag.Valid() {
			return malformed(lr.Line(), "line", fmt.Errorf("unknown tag %q", tag))
		}
		if err := visit(lr.Line(), tag, fields); err != nil {
			return err
		}
	}
	return lr.Err()
}

// MarshalAccount converts an Account to its plaintext fields.
func MarshalAccount(acct model.Account) []string {
	return []string{string(model.TagAccount), acct.Name}
}

// UnmarshalAccount converts plaintext fields, tag included, to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if err := checkRecord(record, model.TagAccount, accountFields); err != nil {
		return model.Account{}, err
	}
	return model.Account{Name: record[acctColName]}, nil
}

// MarshalOperation converts an Operation to its plaintext fields.
func MarshalOperation(op model.Operation, flag FlagMode) []string {
	row := make([]string, operationFields)
	row[colTag] = string(model.TagOperation)
	row[opColDate] = op.Date.Format(dateFormat)
	row[opColLabel] = op.Label
	row[opColAccount] = op.Account
	row[opColAmount] = op.Amount.String()
	row[opColPayment] = op.PaymentMethod
	row[opColEffective] = formatFlag(op.Effective, flag)
	row[opColBudget] = op.Budget
	return row
}

// UnmarshalOperation converts plaintext fields, tag included, to an Operation.
func UnmarshalOperation(record []string, flag FlagMode) (model.Operation, error) {
	if err := checkRecord(record, model.TagOperation, operationFields); err != nil {
		return model.Operation{}, err
	}

	date, err := time.Parse(dateFormat, record[opColDate])
	if err != nil {
		return model.Operation{}, fmt.Errorf("parsing date %q: %w", record[opColDate], err)
	}

	amount, err := parseAmount(record[opColAmount])
	if err != nil {
		return model.Operation{}, err
	}

	effective, err := parseFlag(record[opColEffective], flag)
	if err != nil {
		return model.Operation{}, err
	}

	return model.Operation{
		Date:          date,
		Label:         record[opColLabel],
		Account:       record[opColAccount],
		Amount:        amount,
		PaymentMethod: record[opColPayment],
		Effective:     effective,
		Budget:        record[opColBudget],
	}, nil
}

// MarshalBudget converts a Budget to its plaintext fields.
func MarshalBudget(b model.Budget) []string {
	row := make([]string, budgetFields)
	row[colTag] = string(model.TagBudget)
	row[budColCategory] = b.Category
	row[budColAmount] = b.Amount.String()
	row[budColAccount] = b.Account
	return row
}

// UnmarshalBudget converts plaintext fields, tag included, to a Budget.
func UnmarshalBudget(record []string) (model.Budget, error) {
	if err := checkRecord(record, model.TagBudget, budgetFields); err != nil {
		return model.Budget{}, err
	}

	amount, err := parseAmount(record[budColAmount])
	if err != nil {
		return model.Budget{}, err
	}

	return model.Budget{
		Category: record[budColCategory],
		Amount:   amount,
		Account:  record[budColAccount],
	}, nil
}

func checkRecord(record []string, tag model.Tag, n int) error {
	if len(record) == 0 || model.Tag(record[colTag]) != tag {
		return fmt.Errorf("expected tag %q", tag)
	}
	if len(record) != n {
		return fmt.Errorf("expected %d fields, got %d", n, len(record))
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

var errBadFlag = errors.New("not a boolean")

func parseFlag(s string, mode FlagMode) (bool, error) {
	if mode == FlagStrict {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("parsing effective flag %q: %w", s, errBadFlag)
		}
		return b, nil
	}
	return s != "", nil
}

func formatFlag(b bool, mode FlagMode) string {
	if mode == FlagStrict {
		return strconv.FormatBool(b)
	}
	if b {
		return "True"
	}
	return ""
}
