package content

import (
	"fmt"
	"strings"

	"evcharge-pipeline/models"
)

// fallbackIntro builds the deterministic narrative used when the generation
// service is unavailable. Same facts, no network, always non-empty.
func fallbackIntro(f Facts) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Installing an EV charger in %s, %s is becoming increasingly popular as more residents make the switch to electric vehicles. ",
		f.Name, f.RegionName)
	fmt.Fprintf(&b, "With a population of %d, %s is seeing growing demand for residential charging infrastructure.\n\n",
		f.Population, f.Name)

	fmt.Fprintf(&b, "The average cost to install a Level 2 EV charger in %s is approximately $%d, which includes the equipment and professional installation. ",
		f.Name, f.AvgInstallCost)
	fmt.Fprintf(&b, "With local electricity rates at $%.2f per kWh, charging your EV at home is both convenient and cost-effective.\n\n",
		f.ElectricityRate)

	if len(f.IncentiveNames) > 0 {
		fmt.Fprintf(&b, "%s residents can take advantage of several incentives, including %s, which can significantly reduce your upfront costs. ",
			f.RegionName, f.IncentiveNames[0])
	} else {
		b.WriteString("Federal tax credits may be available to help offset installation costs. ")
	}
	fmt.Fprintf(&b, "This guide will help you understand the process, costs, and options for installing an EV charger at your %s home.",
		f.Name)

	return b.String()
}

// fallbackFAQ builds the deterministic FAQ set: always exactly FAQTarget
// entries from the same locality facts.
func fallbackFAQ(f Facts) []models.FAQItem {
	incentiveAnswer := fmt.Sprintf("While %s may not have specific regional incentives currently, you can still claim the federal Alternative Fuel Vehicle Refueling Property Credit, which provides up to $1,000 for residential EV charger installations.",
		f.RegionName)
	if len(f.IncentiveNames) > 0 {
		incentiveAnswer = fmt.Sprintf("%s residents can access several incentives including %s. Additionally, the federal Alternative Fuel Vehicle Refueling Property Credit offers up to $1,000 for residential installations.",
			f.RegionName, strings.Join(f.IncentiveNames, ", "))
	}

	return []models.FAQItem{
		{
			Question: fmt.Sprintf("How much does it cost to install an EV charger in %s, %s?", f.Name, f.RegionName),
			Answer: fmt.Sprintf("The average cost to install a Level 2 EV charger in %s is approximately $%d. This includes the charging equipment ($400-$800) and professional installation by a licensed electrician ($600-$1,500). Your final cost may vary based on your home's electrical panel capacity and the distance from the panel to your charging location.",
				f.Name, f.AvgInstallCost),
		},
		{
			Question: fmt.Sprintf("What incentives are available in %s for EV charger installation?", f.RegionName),
			Answer:   incentiveAnswer,
		},
		{
			Question: fmt.Sprintf("Do I need a permit to install an EV charger in %s?", f.Name),
			Answer: fmt.Sprintf("Yes, most EV charger installations in %s require an electrical permit. Your licensed electrician will typically handle the permit application and ensure the installation meets %s electrical codes and local building requirements.",
				f.Name, f.RegionName),
		},
		{
			Question: fmt.Sprintf("How long does EV charger installation take in %s?", f.Name),
			Answer: fmt.Sprintf("Most residential EV charger installations in %s take 2-4 hours to complete. However, if your electrical panel needs upgrading or the charger location is far from the panel, installation may take longer and require additional work.",
				f.Name),
		},
		{
			Question: fmt.Sprintf("What's the cost to charge an EV at home in %s?", f.Name),
			Answer: fmt.Sprintf("With %s's average electricity rate of $%.2f per kWh, charging a typical EV (with a 60 kWh battery) from empty to full costs approximately $%.2f. Most drivers charge overnight during off-peak hours, which may offer even lower rates.",
				f.Name, f.ElectricityRate, f.ElectricityRate*60),
		},
	}
}
