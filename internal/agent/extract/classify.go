package extract

import (
	"strings"

	"github.com/fluent-web3/agent/internal/agent/model"
)

// contextKeywords maps each context label to the phrases that vote for it.
// Multi-word phrases are more specific, so scoring weighs them by word count.
var contextKeywords = map[string][]string{
	model.ContextDeFi: {
		"decentralized finance", "defi", "yield farming", "liquidity pool",
		"lending protocol", "dex", "amm", "swap", "borrow", "lend",
		"uniswap", "aave", "compound",
	},
	model.ContextNFT: {
		"nft", "non-fungible token", "digital art", "collectible",
		"opensea", "erc-721", "erc-1155", "mint", "minting", "metadata",
	},
	model.ContextSmartContract: {
		"smart contract", "solidity", "vyper", "hardhat", "foundry",
		"deploy", "compile", "audit", "reentrancy", "erc-20", "token standard",
	},
	model.ContextWeb3: {
		"web3", "dapp", "wallet", "erc-4337", "account abstraction",
		"user operation", "bundler", "paymaster", "entry point", "relayer",
		"rollup", "layer 2", "validator", "staking", "dao", "governance",
	},
}

// ClassifyContext scores the text against each context's keyword list and
// returns the best match, or General when nothing scores. Longer phrases
// count for more than single words.
func ClassifyContext(text string) string {
	lower := strings.ToLower(text)

	best := model.ContextGeneral
	bestScore := 0
	for _, label := range []string{
		model.ContextDeFi, model.ContextNFT, model.ContextSmartContract, model.ContextWeb3,
	} {
		score := 0
		for _, kw := range contextKeywords[label] {
			if strings.Contains(lower, kw) {
				score += len(strings.Fields(kw))
			}
		}
		if score > bestScore {
			best = label
			bestScore = score
		}
	}
	return best
}
