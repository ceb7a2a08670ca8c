package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// registryABIJSON covers the three book-registry entrypoints this client
// uses. The contract carries more surface (ERC-721 transfers, enumeration)
// that is irrelevant here.
const registryABIJSON = `[
  {
    "type": "function",
    "name": "isbnExists",
    "stateMutability": "view",
    "inputs": [{"name": "isbn", "type": "string"}],
    "outputs": [{"name": "", "type": "bool"}]
  },
  {
    "type": "function",
    "name": "getBookByISBN",
    "stateMutability": "view",
    "inputs": [{"name": "isbn", "type": "string"}],
    "outputs": [
      {"name": "tokenId", "type": "uint256"},
      {"name": "owner", "type": "address"},
      {
        "name": "metadata",
        "type": "tuple",
        "components": [
          {"name": "title", "type": "string"},
          {"name": "author", "type": "string"},
          {"name": "mintedAt", "type": "uint256"}
        ]
      }
    ]
  },
  {
    "type": "function",
    "name": "mintBook",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "to", "type": "address"},
      {"name": "isbn", "type": "string"},
      {"name": "title", "type": "string"},
      {"name": "author", "type": "string"},
      {"name": "metadataUri", "type": "string"}
    ],
    "outputs": []
  }
]`

var registryABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		panic("chain: parse registry abi: " + err.Error())
	}
	return parsed
}()

// RegistryABI exposes the parsed ABI for tests that fake the RPC backend.
func RegistryABI() abi.ABI {
	return registryABI
}
