package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profitScope/internal/model"
)

// Store provides Postgres persistence for daily analyses.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveAnalysis upserts the daily aggregate and its per-transaction rows.
func (s *Store) SaveAnalysis(ctx context.Context, analysis model.DailyAnalysis) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO daily_analysis (
			contract, wallet, analysis_date, start_ts, end_ts,
			total_transactions, total_profit, total_gas_fees, total_internal_value,
			asset_price_usd, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now(),now())
		ON CONFLICT (contract, wallet, analysis_date)
		DO UPDATE SET
			start_ts = EXCLUDED.start_ts,
			end_ts = EXCLUDED.end_ts,
			total_transactions = EXCLUDED.total_transactions,
			total_profit = EXCLUDED.total_profit,
			total_gas_fees = EXCLUDED.total_gas_fees,
			total_internal_value = EXCLUDED.total_internal_value,
			asset_price_usd = EXCLUDED.asset_price_usd,
			updated_at = now()
	`,
		analysis.Contract,
		analysis.Wallet,
		analysis.Date,
		int64(analysis.StartTimestamp),
		int64(analysis.EndTimestamp),
		analysis.TotalTransactions,
		model.BigString(analysis.TotalProfit),
		model.BigString(analysis.TotalGasFees),
		model.BigString(analysis.TotalInternalValue),
		analysis.AssetPriceUSD,
	)
	if err != nil {
		return fmt.Errorf("upsert daily analysis: %w", err)
	}

	if len(analysis.Transactions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, tx := range analysis.Transactions {
		batch.Queue(`
			INSERT INTO transaction_profits (
				contract, wallet, analysis_date, tx_hash, block_number, ts, from_address,
				gas_fee, contract_to_wallet_value, contract_to_origin_value,
				total_internal_value, net_profit, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
			ON CONFLICT (contract, wallet, analysis_date, tx_hash)
			DO UPDATE SET
				block_number = EXCLUDED.block_number,
				ts = EXCLUDED.ts,
				from_address = EXCLUDED.from_address,
				gas_fee = EXCLUDED.gas_fee,
				contract_to_wallet_value = EXCLUDED.contract_to_wallet_value,
				contract_to_origin_value = EXCLUDED.contract_to_origin_value,
				total_internal_value = EXCLUDED.total_internal_value,
				net_profit = EXCLUDED.net_profit
		`,
			analysis.Contract,
			analysis.Wallet,
			analysis.Date,
			tx.Hash,
			int64(tx.BlockNumber),
			int64(tx.Timestamp),
			tx.From,
			model.BigString(tx.GasFee),
			model.BigString(tx.ContractToWalletValue),
			model.BigString(tx.ContractToOriginValue),
			model.BigString(tx.TotalInternalValue),
			model.BigString(tx.NetProfit),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range analysis.Transactions {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert transaction profit: %w", err)
		}
	}
	return nil
}
