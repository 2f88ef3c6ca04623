package main

import (
	"context"
	"fmt"
	"strconv"

	"timeflow/core"
)

func execStep(ctx context.Context, vault *core.Vault, st step) (string, error) {
	caller, err := resolveAccount(st.Caller)
	if err != nil {
		return "", fmt.Errorf("caller: %w", err)
	}
	switch st.Op {
	case "createStream":
		recipient, err := resolveAccount(st.Recipient)
		if err != nil {
			return "", fmt.Errorf("recipient: %w", err)
		}
		amount, err := parseAmount(st.Amount)
		if err != nil {
			return "", err
		}
		s, err := vault.CreateStream(ctx, caller, recipient, st.Duration, amount)
		if err != nil {
			return "", err
		}
		return "stream " + strconv.FormatUint(s.ID, 10), nil
	case "withdraw":
		paid, err := vault.WithdrawFromStream(ctx, caller, st.Stream)
		if err != nil {
			return "", err
		}
		return paid.String(), nil
	case "cancel":
		res, err := vault.CancelStream(ctx, caller, st.Stream)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("recipient %s refund %s", res.RecipientAmount, res.SenderRefund), nil
	case "claimable":
		amount, err := vault.GetClaimableBalance(st.Stream)
		if err != nil {
			return "", err
		}
		return amount.String(), nil
	case "stake":
		amount, err := parseAmount(st.Amount)
		if err != nil {
			return "", err
		}
		p, err := vault.Stake(ctx, caller, amount)
		if err != nil {
			return "", err
		}
		return p.Amount.String(), nil
	case "unstake":
		amount, err := parseAmount(st.Amount)
		if err != nil {
			return "", err
		}
		p, err := vault.Unstake(ctx, caller, amount)
		if err != nil {
			return "", err
		}
		return p.Amount.String(), nil
	case "claim":
		paid, err := vault.ClaimRewards(ctx, caller)
		if err != nil {
			return "", err
		}
		return paid.String(), nil
	case "rewards":
		return fmt.Sprintf("theoretical %s realistic %s",
			vault.GetClaimableRewards(caller), vault.GetRealisticClaimableRewards(caller)), nil
	case "updateRewardRate":
		return "", vault.UpdateRewardRate(ctx, caller, st.Rate)
	case "setPaused":
		return "", vault.SetVaultPaused(ctx, caller, st.Paused)
	case "withdrawExcessFees":
		amount, err := parseAmount(st.Amount)
		if err != nil {
			return "", err
		}
		return "", vault.WithdrawExcessFees(ctx, caller, amount)
	case "credit":
		amount, err := parseAmount(st.Amount)
		if err != nil {
			return "", err
		}
		return "", vault.Credit(ctx, caller, amount)
	case "balance":
		return vault.Balance(caller).String(), nil
	default:
		return "", fmt.Errorf("unknown op %q", st.Op)
	}
}
