package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Workflow template definitions
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				slug VARCHAR(255) NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'published', 'archived')),
				metadata JSONB,
				owner VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_status ON workflows(status);
			CREATE INDEX idx_workflows_owner ON workflows(owner);
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);

			-- Compositions group executions into dependency-ordered runs
			CREATE TABLE compositions (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				metadata JSONB,
				owner VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_compositions_owner ON compositions(owner);

			-- Workflow executions; composition membership is optional and is
			-- severed (not cascaded) when the composition goes away
			CREATE TABLE executions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				composition_id UUID REFERENCES compositions(id) ON DELETE SET NULL,
				node_id VARCHAR(255),
				execution_order INT,
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'running', 'completed', 'failed')),
				error_message TEXT,
				result_row_count BIGINT,
				result_location TEXT,
				started_at TIMESTAMP WITH TIME ZONE,
				completed_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				CHECK ((composition_id IS NULL) = (node_id IS NULL)),
				CHECK (execution_order IS NULL OR composition_id IS NOT NULL)
			);

			CREATE INDEX idx_executions_workflow_id ON executions(workflow_id);
			CREATE INDEX idx_executions_composition_id ON executions(composition_id);
			CREATE INDEX idx_executions_status ON executions(status);
			CREATE INDEX idx_executions_composition_order ON executions(composition_id, execution_order);
		`,
		2: `
			-- Campaign search
			CREATE TABLE campaigns (
				id UUID PRIMARY KEY,
				owner VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				brand VARCHAR(255) NOT NULL DEFAULT '',
				state VARCHAR(50) NOT NULL CHECK (state IN ('enabled', 'paused', 'archived')),
				type VARCHAR(50) NOT NULL CHECK (type IN ('sponsored_products', 'sponsored_brands', 'sponsored_display')),
				daily_budget NUMERIC(12,2) NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_campaigns_owner ON campaigns(owner);
			CREATE INDEX idx_campaigns_state ON campaigns(state);
			CREATE INDEX idx_campaigns_brand ON campaigns(brand);
			CREATE INDEX idx_campaigns_name ON campaigns(name);

			-- Product catalog
			CREATE TABLE products (
				id UUID PRIMARY KEY,
				owner VARCHAR(255) NOT NULL,
				asin VARCHAR(10) NOT NULL,
				sku VARCHAR(255) NOT NULL DEFAULT '',
				title TEXT NOT NULL,
				brand VARCHAR(255) NOT NULL DEFAULT '',
				marketplace VARCHAR(50) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				UNIQUE (owner, asin, marketplace)
			);

			CREATE INDEX idx_products_owner ON products(owner);
			CREATE INDEX idx_products_brand ON products(brand);
		`,
		3: `
			-- Build-guide tutorial content
			CREATE TABLE build_guides (
				id UUID PRIMARY KEY,
				slug VARCHAR(255) NOT NULL UNIQUE,
				title VARCHAR(255) NOT NULL,
				category VARCHAR(100) NOT NULL DEFAULT '',
				sections JSONB NOT NULL DEFAULT '[]',
				published BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_build_guides_published ON build_guides(published);
			CREATE INDEX idx_build_guides_category ON build_guides(category);
		`,
	}
}
