package pricing

import (
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/utils"
)

// importantAttributes are the product attributes kept in simplified records
var importantAttributes = map[string]bool{
	"instanceType":     true,
	"vcpu":             true,
	"memory":           true,
	"storage":          true,
	"operatingSystem":  true,
	"databaseEngine":   true,
	"deploymentOption": true,
	"storageClass":     true,
	"volumeType":       true,
	"usagetype":        true,
	"servicecode":      true,
	"location":         true,
	"servicename":      true,
}

// simplifyPriceList parses one GetProducts page. Unparseable products are
// skipped and at most maxProductsPerPage are kept.
func simplifyPriceList(priceList []string) []models.PricingRecord {
	var records []models.PricingRecord
	for _, item := range priceList {
		record, err := simplifyProduct(item)
		if err != nil {
			continue
		}
		records = append(records, record)
		if len(records) == maxProductsPerPage {
			break
		}
	}
	return records
}

// simplifyProduct reduces a Price List product document to its SKU, the
// important attributes and the first on-demand and reserved price dimensions
func simplifyProduct(priceJSON string) (models.PricingRecord, error) {
	priceData, err := utils.ParseJSON(priceJSON)
	if err != nil {
		return models.PricingRecord{}, err
	}

	product := utils.GetMap(priceData, "product")
	record := models.PricingRecord{
		SKU:           utils.GetString(product, "sku"),
		ProductFamily: utils.GetString(product, "productFamily"),
		Attributes:    make(map[string]string),
	}

	for k, v := range utils.GetMap(product, "attributes") {
		if s, ok := v.(string); ok && importantAttributes[k] {
			record.Attributes[k] = s
		}
	}

	terms := utils.GetMap(priceData, "terms")
	record.Pricing.OnDemand = extractTerm(utils.GetMap(terms, "OnDemand"))
	record.Pricing.Reserved = extractTerm(utils.GetMap(terms, "Reserved"))

	return record, nil
}

// extractTerm returns the first price dimension of the first offer of a term
func extractTerm(term map[string]interface{}) *models.PriceTerm {
	offer, err := utils.GetFirstMapValue(term)
	if err != nil {
		return nil
	}
	offerMap, ok := offer.(map[string]interface{})
	if !ok {
		return nil
	}

	dimension, err := utils.GetFirstMapValue(utils.GetMap(offerMap, "priceDimensions"))
	if err != nil {
		return nil
	}
	dimensionMap, ok := dimension.(map[string]interface{})
	if !ok {
		return nil
	}

	pricePerUnit := make(map[string]string)
	for currency, v := range utils.GetMap(dimensionMap, "pricePerUnit") {
		if s, ok := v.(string); ok {
			pricePerUnit[currency] = s
		}
	}

	return &models.PriceTerm{
		Unit:         utils.GetString(dimensionMap, "unit"),
		PricePerUnit: pricePerUnit,
		Description:  utils.GetString(dimensionMap, "description"),
	}
}
